package dates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/awwalm/real-job-dates/internal/domain"
)

func TestFromEpochSecondsAndMillisAgree(t *testing.T) {
	const secs = int64(1700000000) // 2023-11-14T22:13:20Z
	fromSecs := FromEpoch(secs)
	fromMillis := FromEpoch(secs * 1000)

	require.Equal(t, "2023-11-14", fromSecs.Format("2006-01-02"))
	require.Equal(t, fromSecs, fromMillis)
	require.Equal(t, time.UTC, fromMillis.Location())
}

func TestResolvePublishedField(t *testing.T) {
	raw := domain.RawListing{PublishedRaw: "2024-03-01T09:30:00.000-05:00"}

	when, step, ok := Resolve(context.Background(), raw, nil)
	require.True(t, ok)
	require.Equal(t, "published", step)
	require.Equal(t, "2024-03-01", when.Format("2006-01-02"))
}

func TestResolveUpdatedFallback(t *testing.T) {
	raw := domain.RawListing{UpdatedRaw: "2024-02-15T00:00:00Z"}

	when, step, ok := Resolve(context.Background(), raw, nil)
	require.True(t, ok)
	require.Equal(t, "updated", step)
	require.Equal(t, "2024-02-15", when.Format("2006-01-02"))
}

func TestResolveLeverMillisEpoch(t *testing.T) {
	raw := domain.RawListing{CreatedEpoch: 1700000000000}

	when, step, ok := Resolve(context.Background(), raw, nil)
	require.True(t, ok)
	require.Equal(t, "published", step)
	require.Equal(t, "2023-11-14", when.Format("2006-01-02"))
}

func TestResolveContentFallback(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare iso date", "Our team is hiring. Posted on 2024-03-01 in Toronto.", "2024-03-01"},
		{"human readable", "Posted on March 1, 2024", "2024-03-01"},
		{"embedded published_at", `<script>{"published_at": "2024-01-15T12:00:00-05:00"}</script>`, "2024-01-15"},
		{"embedded createdAt millis", `{"createdAt": 1700000000000}`, "2023-11-14"},
		{"data attribute", `<div data-created="2024-02-02">…</div>`, "2024-02-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := domain.RawListing{Content: tt.content}
			when, step, ok := Resolve(context.Background(), raw, nil)
			require.True(t, ok)
			require.Equal(t, "content", step)
			require.Equal(t, tt.want, when.Format("2006-01-02"))
		})
	}
}

func TestResolveContentFirstPatternWins(t *testing.T) {
	// createdAt is machine-written and ordered before prose dates
	raw := domain.RawListing{
		Content: `{"createdAt": 1700000000000} ... Posted on March 1, 2024`,
	}
	when, _, ok := Resolve(context.Background(), raw, nil)
	require.True(t, ok)
	require.Equal(t, "2023-11-14", when.Format("2006-01-02"))
}

func TestResolveNothingYieldsUnknown(t *testing.T) {
	_, _, ok := Resolve(context.Background(), domain.RawListing{Title: "Software Engineer"}, nil)
	require.False(t, ok)
}

func TestResolveDetailFetch(t *testing.T) {
	raw := domain.RawListing{Title: "Software Engineer"}
	detail := func(ctx context.Context) (domain.RawListing, error) {
		return domain.RawListing{PublishedRaw: "2024-04-10T00:00:00Z"}, nil
	}

	when, step, ok := Resolve(context.Background(), raw, detail)
	require.True(t, ok)
	require.Equal(t, "detail:published", step)
	require.Equal(t, "2024-04-10", when.Format("2006-01-02"))
}

func TestResolveDetailFailureIsUnknownNotError(t *testing.T) {
	detail := func(ctx context.Context) (domain.RawListing, error) {
		return domain.RawListing{}, errors.New("status 500")
	}
	_, _, ok := Resolve(context.Background(), domain.RawListing{}, detail)
	require.False(t, ok)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01T12:34:56.789-05:00", "2024-03-01", true},
		{"2024-03-01T12:34:56Z", "2024-03-01", true},
		{"2024-03-01T12:34:56", "2024-03-01", true}, // zone-less
		{"January 2, 2026", "2026-01-02", true},
		{"Jan 2, 2026", "2026-01-02", true},
		{"2024-03-01", "2024-03-01", true},
		{"03/01/2024", "2024-03-01", true},
		{"1700000000", "2023-11-14", true},
		{"1700000000000", "2023-11-14", true},
		{"2024", "", false}, // a year is not an epoch
		{"", "", false},
		{"yesterday", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}
