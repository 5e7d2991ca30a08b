// Package lever extracts listings from the public Lever postings API.
// The list endpoint already carries createdAt (a millisecond epoch); the
// per-posting endpoint is the secondary surface for boards that omit it.
package lever

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/awwalm/real-job-dates/internal/domain"
	"github.com/awwalm/real-job-dates/internal/fetch"
	"github.com/awwalm/real-job-dates/internal/scrape/util"
)

const defaultAPIBase = "https://api.lever.co/v0/postings"

type Source struct {
	client  *fetch.Client
	apiBase string
}

func New(client *fetch.Client) *Source {
	return &Source{client: client, apiBase: defaultAPIBase}
}

func (s *Source) Platform() domain.Platform { return domain.PlatformLever }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // ms epoch
	UpdatedAt  int64  `json:"updatedAt"`
	Categories struct {
		Location   json.RawMessage `json:"location"` // string or list, board-dependent
		Team       string          `json:"team"`
		Commitment string          `json:"commitment"`
	} `json:"categories"`
	DescriptionPlain string `json:"descriptionPlain"`
}

func (s *Source) Listings(ctx context.Context, t domain.Target) ([]domain.RawListing, error) {
	apiURL := fmt.Sprintf("%s/%s?mode=json", s.apiBase, t.Slug)

	body, err := s.client.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("lever postings: %w", err)
	}

	var postings []posting
	if err := json.Unmarshal(body, &postings); err != nil {
		// some boards return an HTML error page with status 200
		log.Printf("[lever] slug=%q malformed postings payload: %v", t.Slug, err)
		return nil, nil
	}

	out := make([]domain.RawListing, 0, len(postings))
	for _, p := range postings {
		if p.ID == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		out = append(out, s.toRaw(t.Slug, p))
	}
	return out, nil
}

// Detail fetches the single-posting endpoint and decodes it the same way
// as a list entry.
func (s *Source) Detail(ctx context.Context, t domain.Target, raw domain.RawListing) (domain.RawListing, error) {
	if raw.DetailAPI == "" {
		return domain.RawListing{}, fmt.Errorf("lever: listing %s has no detail surface", raw.ExternalID)
	}
	body, err := s.client.Get(ctx, raw.DetailAPI)
	if err != nil {
		return domain.RawListing{}, fmt.Errorf("lever detail: %w", err)
	}
	var p posting
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.RawListing{}, fmt.Errorf("lever detail decode: %w", err)
	}
	return s.toRaw(t.Slug, p), nil
}

func (s *Source) toRaw(slug string, p posting) domain.RawListing {
	return domain.RawListing{
		ExternalID:   p.ID,
		Title:        util.CleanText(p.Text),
		Location:     util.NormalizeLocation(locationString(p.Categories.Location)),
		Department:   util.CleanText(p.Categories.Team),
		DetailURL:    util.CanonicalizeURL(p.HostedURL),
		DetailAPI:    fmt.Sprintf("%s/%s/%s", s.apiBase, slug, p.ID),
		CreatedEpoch: p.CreatedAt,
		UpdatedEpoch: p.UpdatedAt,
		Content:      p.DescriptionPlain,
	}
}

// locationString tolerates both shapes Lever emits for categories.location.
func locationString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, ", ")
	}
	return ""
}
