package domain

// Target is one configured (company, platform, slug) board to scrape.
type Target struct {
	Name     string
	Platform Platform
	Slug     string // boards-api.greenhouse.io/v1/boards/<slug> or api.lever.co/v0/postings/<slug>
}

func (t Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Slug
}
