// Package greenhouse extracts listings from Greenhouse job boards.
//
// The primary surface is the public boards API, which returns JSON and
// (with content=true) carries first_published, updated_at and the posting
// body. Boards that expose nothing there fall back to scraping the public
// board HTML. The secondary per-listing surface is the embed job_app page,
// whose markup embeds a published_at field the board UI hides.
package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/awwalm/real-job-dates/internal/domain"
	"github.com/awwalm/real-job-dates/internal/fetch"
	"github.com/awwalm/real-job-dates/internal/scrape/util"
)

const (
	defaultAPIBase   = "https://boards-api.greenhouse.io/v1/boards"
	defaultBoardBase = "https://boards.greenhouse.io"
	defaultEmbedBase = "https://job-boards.greenhouse.io/embed/job_app"
)

type Source struct {
	client    *fetch.Client
	apiBase   string
	boardBase string
	embedBase string
}

func New(client *fetch.Client) *Source {
	return &Source{
		client:    client,
		apiBase:   defaultAPIBase,
		boardBase: defaultBoardBase,
		embedBase: defaultEmbedBase,
	}
}

func (s *Source) Platform() domain.Platform { return domain.PlatformGreenhouse }

type boardJob struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	AbsoluteURL    string `json:"absolute_url"`
	UpdatedAt      string `json:"updated_at"`
	FirstPublished string `json:"first_published"`
	Content        string `json:"content"`
	Location       struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

// Listings fetches the board's job list. A payload that fails to decode or
// carries zero jobs is retried against the board HTML; an empty board is
// an empty slice, never an error.
func (s *Source) Listings(ctx context.Context, t domain.Target) ([]domain.RawListing, error) {
	apiURL := fmt.Sprintf("%s/%s/jobs?content=true", s.apiBase, t.Slug)

	body, err := s.client.Get(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse board api: %w", err)
	}

	var payload struct {
		Jobs []boardJob `json:"jobs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[greenhouse] slug=%q malformed api payload, trying board html: %v", t.Slug, err)
		return s.boardHTMLFallback(ctx, t), nil
	}
	if len(payload.Jobs) == 0 {
		return s.boardHTMLFallback(ctx, t), nil
	}

	out := make([]domain.RawListing, 0, len(payload.Jobs))
	for _, j := range payload.Jobs {
		if j.ID == 0 || strings.TrimSpace(j.Title) == "" {
			continue
		}
		token := strconv.FormatInt(j.ID, 10)
		raw := domain.RawListing{
			ExternalID:   token,
			Title:        util.CleanText(j.Title),
			Location:     util.NormalizeLocation(j.Location.Name),
			DetailURL:    util.CanonicalizeURL(j.AbsoluteURL),
			DetailAPI:    s.embedURL(t.Slug, token),
			PublishedRaw: j.FirstPublished,
			UpdatedRaw:   j.UpdatedAt,
			Content:      j.Content,
		}
		if len(j.Departments) > 0 {
			raw.Department = util.CleanText(j.Departments[0].Name)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Detail fetches the embed job_app page. Its HTML is handed back as the
// free-text blob; the resolver's pattern scan does the rest.
func (s *Source) Detail(ctx context.Context, t domain.Target, raw domain.RawListing) (domain.RawListing, error) {
	if raw.DetailAPI == "" {
		return domain.RawListing{}, fmt.Errorf("greenhouse: listing %s has no detail surface", raw.ExternalID)
	}
	body, err := s.client.Get(ctx, raw.DetailAPI)
	if err != nil {
		return domain.RawListing{}, fmt.Errorf("greenhouse detail: %w", err)
	}
	return domain.RawListing{
		ExternalID: raw.ExternalID,
		Content:    string(body),
	}, nil
}

// boardHTMLFallback runs the HTML scrape after the API already answered
// with nothing usable. Many boards that live on the API never existed on
// the legacy board host, so a failing secondary fetch degrades to an
// empty board instead of failing the target.
func (s *Source) boardHTMLFallback(ctx context.Context, t domain.Target) []domain.RawListing {
	raws, err := s.boardHTML(ctx, t)
	if err != nil {
		log.Printf("[greenhouse] slug=%q board html fallback failed: %v", t.Slug, err)
		return nil
	}
	return raws
}

// boardHTML scrapes the public board page. Newer boards render .opening
// rows; older ones only leave /jobs/<id> anchors.
func (s *Source) boardHTML(ctx context.Context, t domain.Target) ([]domain.RawListing, error) {
	boardURL := fmt.Sprintf("%s/%s", s.boardBase, t.Slug)

	body, err := s.client.Get(ctx, boardURL)
	if err != nil {
		return nil, fmt.Errorf("greenhouse board html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		log.Printf("[greenhouse] slug=%q unparseable board html: %v", t.Slug, err)
		return nil, nil
	}

	seen := map[string]bool{}
	var out []domain.RawListing

	add := func(href, title, location string) {
		if strings.HasPrefix(href, "/") {
			href = s.boardBase + href
		}
		if !strings.Contains(strings.ToLower(href), "/jobs/") {
			return
		}
		token := jobToken(href)
		if token == "" || seen[token] {
			return
		}
		title = util.CleanText(title)
		if title == "" || looksLikeJunkTitle(title) {
			return
		}
		seen[token] = true
		out = append(out, domain.RawListing{
			ExternalID: token,
			Title:      title,
			Location:   util.NormalizeLocation(location),
			DetailURL:  util.CanonicalizeURL(href),
			DetailAPI:  s.embedURL(t.Slug, token),
		})
	}

	doc.Find(".opening").Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		add(href, a.Text(), row.Find(".location").Text())
	})

	if len(out) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			add(href, a.Text(), "")
		})
	}

	for i := range out {
		if out[i].Location == "" {
			s.hydrateLocation(ctx, &out[i])
		}
	}
	return out, nil
}

// hydrateLocation fills a missing location from the posting page. Errors
// leave the listing as-is; a listing without a location is still useful.
func (s *Source) hydrateLocation(ctx context.Context, raw *domain.RawListing) {
	if raw.DetailURL == "" {
		return
	}
	body, err := s.client.Get(ctx, raw.DetailURL)
	if err != nil {
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return
	}
	raw.Location = util.FindLocation(doc)
}

func (s *Source) embedURL(slug, token string) string {
	return fmt.Sprintf("%s?for=%s&token=%s", s.embedBase, slug, token)
}

// jobToken pulls the numeric job id out of a board URL.
func jobToken(u string) string {
	parts := strings.Split(u, "/jobs/")
	if len(parts) < 2 {
		return ""
	}
	tail := parts[1]
	id := ""
	for _, r := range tail {
		if r < '0' || r > '9' {
			break
		}
		id += string(r)
	}
	return id
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "view") || strings.Contains(l, "apply")
}
