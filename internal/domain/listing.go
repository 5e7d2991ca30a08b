package domain

import "time"

// UnknownDate is what a listing's posting date serializes to when no
// fallback step produced a valid value.
const UnknownDate = "unknown"

// RawListing is one job opening as extracted from a platform payload,
// before date resolution. The date-bearing fields are kept raw so the
// resolver can try them in order.
type RawListing struct {
	ExternalID string
	Title      string
	Location   string
	Department string
	DetailURL  string // human-facing posting page
	DetailAPI  string // secondary machine surface for date recovery, if any

	PublishedRaw string // ISO-ish timestamp string, e.g. greenhouse first_published
	UpdatedRaw   string // differently-named equivalent, e.g. greenhouse updated_at
	CreatedEpoch int64  // epoch seconds or milliseconds, e.g. lever createdAt
	UpdatedEpoch int64
	Content      string // free-text blob (description/metadata) scanned as a last resort
}

// Listing is the final, date-resolved record written to the output file.
// PostedAt is nil when the whole fallback chain came up empty; the listing
// is still written with UnknownDate, never a guessed default.
type Listing struct {
	Company    string
	Title      string
	ExternalID string
	Department string
	Location   string
	URL        string
	PostedAt   *time.Time
}

// PostedDate renders the posting date as a UTC calendar date or the
// explicit unknown sentinel.
func (l Listing) PostedDate() string {
	if l.PostedAt == nil {
		return UnknownDate
	}
	return l.PostedAt.UTC().Format("2006-01-02")
}
