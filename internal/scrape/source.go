package scrape

import (
	"context"

	"github.com/awwalm/real-job-dates/internal/domain"
	"github.com/awwalm/real-job-dates/internal/fetch"
	"github.com/awwalm/real-job-dates/internal/scrape/greenhouse"
	"github.com/awwalm/real-job-dates/internal/scrape/lever"
)

// Source is the per-platform strategy: extract a board's listings, and
// fetch the secondary per-listing surface for date recovery.
type Source interface {
	Platform() domain.Platform
	Listings(ctx context.Context, t domain.Target) ([]domain.RawListing, error)
	Detail(ctx context.Context, t domain.Target, raw domain.RawListing) (domain.RawListing, error)
}

// Sources builds the platform registry over one shared client, so every
// request in a run rides the same per-host limiter.
func Sources(client *fetch.Client) map[domain.Platform]Source {
	return map[domain.Platform]Source{
		domain.PlatformGreenhouse: greenhouse.New(client),
		domain.PlatformLever:      lever.New(client),
	}
}
