package greenhouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/awwalm/real-job-dates/internal/domain"
	"github.com/awwalm/real-job-dates/internal/fetch"
)

func testFetchClient() *fetch.Client {
	return fetch.New(fetch.Config{
		RetryBackoff: 5 * time.Millisecond,
		PerHostRPS:   1000,
		Burst:        100,
	})
}

func testTarget() domain.Target {
	return domain.Target{Name: "Stripe", Platform: domain.PlatformGreenhouse, Slug: "stripe"}
}

const boardJSON = `{
  "jobs": [
    {
      "id": 7165710,
      "title": "Software Engineer",
      "absolute_url": "https://stripe.com/jobs/listing/software-engineer/7165710?gh_src=abc",
      "updated_at": "2024-03-05T10:00:00-05:00",
      "first_published": "2024-03-01T09:30:00-05:00",
      "content": "We are hiring...",
      "location": {"name": "Toronto, Canada"},
      "departments": [{"name": "Engineering"}]
    },
    {
      "id": 0,
      "title": "Broken entry"
    },
    {
      "id": 7165711,
      "title": "Account Executive",
      "absolute_url": "https://boards.greenhouse.io/stripe/jobs/7165711",
      "location": {"name": "Dublin, Ireland"}
    }
  ]
}`

func TestListingsFromAPI(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stripe/jobs", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("content"))
		_, _ = w.Write([]byte(boardJSON))
	}))
	defer api.Close()

	src := New(testFetchClient())
	src.apiBase = api.URL

	raws, err := src.Listings(context.Background(), testTarget())
	require.NoError(t, err)
	require.Len(t, raws, 2) // the id-less entry is dropped, not fatal

	first := raws[0]
	require.Equal(t, "7165710", first.ExternalID)
	require.Equal(t, "Software Engineer", first.Title)
	require.Equal(t, "Toronto, Canada", first.Location)
	require.Equal(t, "Engineering", first.Department)
	require.Equal(t, "2024-03-01T09:30:00-05:00", first.PublishedRaw)
	require.Equal(t, "2024-03-05T10:00:00-05:00", first.UpdatedRaw)
	require.Contains(t, first.DetailAPI, "for=stripe&token=7165710")
	require.NotContains(t, first.DetailURL, "gh_src") // tracking params stripped
}

const boardHTML = `<html><body>
<div class="opening">
  <a href="/stripe/jobs/4038198002">Backend Engineer</a>
  <span class="location">Remote - Canada</span>
</div>
<div class="opening">
  <a href="https://boards.greenhouse.io/stripe/jobs/4038198003">Data Engineer</a>
  <span class="location">Dublin, Ireland</span>
</div>
<a href="/stripe/jobs/4038198002">View all jobs</a>
</body></html>`

func TestListingsFallsBackToBoardHTML(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer api.Close()
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stripe", r.URL.Path)
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer board.Close()

	src := New(testFetchClient())
	src.apiBase = api.URL
	src.boardBase = board.URL

	raws, err := src.Listings(context.Background(), testTarget())
	require.NoError(t, err)
	require.Len(t, raws, 2)
	require.Equal(t, "4038198002", raws[0].ExternalID)
	require.Equal(t, "Backend Engineer", raws[0].Title)
	require.Equal(t, "Remote - Canada", raws[0].Location)
	require.Equal(t, "4038198003", raws[1].ExternalID)
}

func TestListingsEmptyBoardIsNotAnError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs": []}`))
	}))
	defer api.Close()
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No openings right now.</p></body></html>`))
	}))
	defer board.Close()

	src := New(testFetchClient())
	src.apiBase = api.URL
	src.boardBase = board.URL

	raws, err := src.Listings(context.Background(), testTarget())
	require.NoError(t, err)
	require.Empty(t, raws)
}

// A board that answers on the API but never existed on the legacy board
// host must come back empty, not failed; the primary fetch succeeded.
func TestListingsDeadBoardFallbackIsNotAnError(t *testing.T) {
	payloads := map[string]string{
		"empty payload":     `{"jobs": []}`,
		"malformed payload": `<html>not json</html>`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			}))
			defer api.Close()
			board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			}))
			defer board.Close()

			src := New(testFetchClient())
			src.apiBase = api.URL
			src.boardBase = board.URL

			raws, err := src.Listings(context.Background(), testTarget())
			require.NoError(t, err)
			require.Empty(t, raws)
		})
	}
}

// Bare-anchor boards carry no location in the list markup; it has to come
// from the posting page itself.
func TestBoardFallbackHydratesMissingLocations(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer api.Close()
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stripe":
			_, _ = w.Write([]byte(`<html><body>
<a href="/stripe/jobs/4038198002">Backend Engineer</a>
</body></html>`))
		case "/stripe/jobs/4038198002":
			_, _ = w.Write([]byte(`<html><body>
<h1>Backend Engineer</h1>
<div class="location">Remote - Canada</div>
</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer board.Close()

	src := New(testFetchClient())
	src.apiBase = api.URL
	src.boardBase = board.URL

	raws, err := src.Listings(context.Background(), testTarget())
	require.NoError(t, err)
	require.Len(t, raws, 1)
	require.Equal(t, "4038198002", raws[0].ExternalID)
	require.Equal(t, "Remote - Canada", raws[0].Location)
}

func TestDetailReturnsEmbedPageAsContent(t *testing.T) {
	embed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "stripe", r.URL.Query().Get("for"))
		require.Equal(t, "7165710", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`<script>{"published_at": "2024-03-01T09:30:00-05:00"}</script>`))
	}))
	defer embed.Close()

	src := New(testFetchClient())
	src.embedBase = embed.URL

	raw := domain.RawListing{
		ExternalID: "7165710",
		DetailAPI:  src.embedURL("stripe", "7165710"),
	}
	detail, err := src.Detail(context.Background(), testTarget(), raw)
	require.NoError(t, err)
	require.Contains(t, detail.Content, `"published_at"`)
}

func TestJobToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://boards.greenhouse.io/stripe/jobs/7165710", "7165710"},
		{"https://boards.greenhouse.io/stripe/jobs/7165710?gh_src=x", "7165710"},
		{"https://boards.greenhouse.io/stripe", ""},
		{"https://boards.greenhouse.io/stripe/jobs/apply-now", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, jobToken(tt.in), tt.in)
	}
}
