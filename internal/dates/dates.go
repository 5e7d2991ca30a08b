// Package dates resolves a best-effort posting date for a listing.
//
// Vendors expose the real date under different field names depending on
// platform and board version, sometimes only inside free-text content, and
// sometimes only on a secondary per-listing page. The policy is an explicit
// ordered chain of pure steps, first success wins:
//
//  1. published — the primary structured field
//  2. updated   — a differently-named equivalent timestamp
//  3. content   — free-text scan for date-shaped substrings
//  4. the same three steps against a secondary detail fetch
//
// If everything fails the caller gets ok=false and writes the listing with
// an explicit unknown marker.
package dates

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/awwalm/real-job-dates/internal/domain"
)

// Step is one pure fallback attempt against a raw listing.
type Step struct {
	Name string
	Fn   func(domain.RawListing) (time.Time, bool)
}

// Chain returns the fallback steps in resolution order.
func Chain() []Step {
	return []Step{
		{Name: "published", Fn: fromPublished},
		{Name: "updated", Fn: fromUpdated},
		{Name: "content", Fn: fromContent},
	}
}

// DetailFunc fetches the listing's secondary surface and re-extracts it.
type DetailFunc func(ctx context.Context) (domain.RawListing, error)

// Resolve runs the chain against raw, then (if provided) against one
// detail fetch. The returned step name says which rung won, with a
// "detail:" prefix when the secondary fetch was needed. ok=false means
// unknown; a failing detail fetch is not an error here.
func Resolve(ctx context.Context, raw domain.RawListing, detail DetailFunc) (t time.Time, step string, ok bool) {
	for _, st := range Chain() {
		if v, ok := st.Fn(raw); ok {
			return v.UTC(), st.Name, true
		}
	}

	if detail == nil {
		return time.Time{}, "", false
	}
	d, err := detail(ctx)
	if err != nil {
		return time.Time{}, "", false
	}
	for _, st := range Chain() {
		if v, ok := st.Fn(d); ok {
			return v.UTC(), "detail:" + st.Name, true
		}
	}
	return time.Time{}, "", false
}

func fromPublished(raw domain.RawListing) (time.Time, bool) {
	if t, ok := ParseTimestamp(raw.PublishedRaw); ok {
		return t, true
	}
	if raw.CreatedEpoch > 0 {
		return FromEpoch(raw.CreatedEpoch), true
	}
	return time.Time{}, false
}

func fromUpdated(raw domain.RawListing) (time.Time, bool) {
	if t, ok := ParseTimestamp(raw.UpdatedRaw); ok {
		return t, true
	}
	if raw.UpdatedEpoch > 0 {
		return FromEpoch(raw.UpdatedEpoch), true
	}
	return time.Time{}, false
}

// contentPatterns is ordered: machine-written JSON fields first, human
// readable forms last. The first matching pattern's first match wins; that
// is a heuristic carried over deliberately, not a parsing guarantee.
var contentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"published_at":\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)"createdAt":\s*(\d{10,13})`),
	regexp.MustCompile(`(?i)"createdAt":\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)"publishedAt":\s*(\d{10,13})`),
	regexp.MustCompile(`(?i)data-created="([^"]+)"`),
	regexp.MustCompile(`(?i)posted on ([A-Za-z]+ \d{1,2}, \d{4})`),
	regexp.MustCompile(`(?i)posting-date[^>]*>([^<]+)<`),
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
}

func fromContent(raw domain.RawListing) (time.Time, bool) {
	if raw.Content == "" {
		return time.Time{}, false
	}
	for _, re := range contentPatterns {
		m := re.FindStringSubmatch(raw.Content)
		if m == nil {
			continue
		}
		if t, ok := ParseTimestamp(m[1]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromEpoch normalizes an epoch integer to a UTC time, detecting
// milliseconds by magnitude.
func FromEpoch(v int64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05", // zone-less ISO; treated as UTC
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"01/02/2006",
}

// ParseTimestamp parses an epoch integer or any of the timestamp shapes
// the two platforms emit. All results are UTC; no local-time conversion.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		// anything shorter than a 10-digit epoch is a year or junk,
		// not a timestamp
		if n < 1_000_000_000 {
			return time.Time{}, false
		}
		return FromEpoch(n), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
