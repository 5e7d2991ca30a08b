package scrape

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/awwalm/real-job-dates/internal/config"
	"github.com/awwalm/real-job-dates/internal/dates"
	"github.com/awwalm/real-job-dates/internal/domain"
	"github.com/awwalm/real-job-dates/internal/export"
	"github.com/awwalm/real-job-dates/internal/fetch"
)

// ErrRunInProgress means another run holds the output-directory lock.
var ErrRunInProgress = errors.New("another scrape run is writing to this output directory")

type Summary struct {
	Targets  int
	Failed   int
	Listings int
	Files    []string
}

// Run walks the configured targets in order, one at a time: fetch and
// extract, filter, resolve dates, write the company CSV, then sleep the
// pacing delay before the next target. A target's failure is logged and
// counted, never fatal to the batch.
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	var sum Summary

	if err := os.MkdirAll(cfg.App.OutputDir, 0o755); err != nil {
		return sum, err
	}

	lock := flock.New(filepath.Join(cfg.App.OutputDir, ".scrape.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return sum, err
	}
	if !locked {
		return sum, ErrRunInProgress
	}
	defer func() { _ = lock.Unlock() }()

	client := fetch.New(fetch.Config{
		UserAgent:    cfg.Scrape.UserAgent,
		Timeout:      cfg.Timeout(),
		RetryBackoff: cfg.RetryBackoff(),
		PerHostRPS:   cfg.Scrape.PerHostRPS,
		Burst:        cfg.Scrape.Burst,
	})
	return run(ctx, cfg, Sources(client))
}

func run(ctx context.Context, cfg config.Config, sources map[domain.Platform]Source) (Summary, error) {
	var sum Summary
	targets := cfg.DomainTargets()
	sum.Targets = len(targets)

	for i, target := range targets {
		if i > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(cfg.TargetDelay()):
			}
		}

		src, ok := sources[target.Platform]
		if !ok {
			log.Printf("[run] %s: no source for platform %q", target.Slug, target.Platform)
			sum.Failed++
			continue
		}

		log.Printf("[run] %s (%s) ...", target.DisplayName(), target.Platform)
		listings, err := scrapeTarget(ctx, src, target, cfg.Filters)
		if err != nil {
			// no file for a board we could not reach
			log.Printf("[%s] %s: fetch failed, skipping: %v", target.Platform, target.Slug, err)
			sum.Failed++
			continue
		}

		path, err := export.WriteCSV(cfg.App.OutputDir, target, listings)
		if err != nil {
			log.Printf("[%s] %s: write failed: %v", target.Platform, target.Slug, err)
			sum.Failed++
			continue
		}

		sum.Listings += len(listings)
		sum.Files = append(sum.Files, path)
		log.Printf("[%s] %s: wrote %d listings to %s", target.Platform, target.Slug, len(listings), path)
	}

	return sum, nil
}

// scrapeTarget runs extract → filter → resolve for one board. Filtering
// happens before date resolution so skipped listings never cost a detail
// fetch.
func scrapeTarget(ctx context.Context, src Source, target domain.Target, filters config.Filters) ([]domain.Listing, error) {
	raws, err := src.Listings(ctx, target)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(raws))
	for _, raw := range raws {
		keep, why := Keep(filters, raw)
		if !keep {
			log.Printf("[%s] skipped (%s) title=%q loc=%q", target.Platform, why, raw.Title, raw.Location)
			continue
		}

		var detail dates.DetailFunc
		if raw.DetailAPI != "" {
			raw := raw
			detail = func(ctx context.Context) (domain.RawListing, error) {
				return src.Detail(ctx, target, raw)
			}
		}

		l := domain.Listing{
			Company:    target.DisplayName(),
			Title:      raw.Title,
			ExternalID: raw.ExternalID,
			Department: raw.Department,
			Location:   raw.Location,
			URL:        raw.DetailURL,
		}
		when, step, ok := dates.Resolve(ctx, raw, detail)
		if ok {
			l.PostedAt = &when
			log.Printf("[%s] %s dated %s via %s", target.Platform, raw.ExternalID, l.PostedDate(), step)
		} else {
			log.Printf("[%s] %s date unresolved", target.Platform, raw.ExternalID)
		}
		listings = append(listings, l)
	}
	return listings, nil
}
