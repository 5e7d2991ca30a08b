package scrape

import (
	"strings"

	"github.com/awwalm/real-job-dates/internal/config"
	"github.com/awwalm/real-job-dates/internal/domain"
)

// Keep decides whether a listing survives filtering. Both predicates must
// pass: the location against the allow-set and the title/department
// against the category keywords. The reason names the failed predicate
// for the skip log; failing is never an error.
func Keep(f config.Filters, raw domain.RawListing) (keep bool, reason string) {
	if !matchesAny(raw.Location, f.Locations) {
		return false, "location"
	}
	if !matchesAny(raw.Title+" "+raw.Department, f.Categories) {
		return false, "category"
	}
	return true, ""
}

// matchesAny is a case-insensitive substring match. An empty allow-set
// allows everything.
func matchesAny(text string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
