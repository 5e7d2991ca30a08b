package config

import (
	"fmt"
	"strings"

	"github.com/awwalm/real-job-dates/internal/domain"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and de-duplicates the configured lists and
// checks the parts a run cannot recover from. Warnings flag configs that
// are legal but probably not what the user meant.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.Locations = trimList(out.Filters.Locations)
	out.Filters.Categories = trimList(out.Filters.Categories)

	if len(out.Targets) == 0 {
		res.addErr("no targets configured")
	}

	seenSlugs := map[string]bool{}
	for i, t := range out.Targets {
		if strings.TrimSpace(t.Slug) == "" {
			res.addErr("targets[%d]: slug is required", i)
		}
		if _, err := domain.ParsePlatform(t.Platform); err != nil {
			res.addErr("targets[%d] (%s): %v", i, t.Slug, err)
		}
		key := strings.ToLower(t.Platform + ":" + t.Slug)
		if seenSlugs[key] {
			res.addWarn("duplicate target %s:%s; the later entry overwrites the earlier file", t.Platform, t.Slug)
		}
		seenSlugs[key] = true
	}

	if len(out.Filters.Locations) == 0 {
		res.addWarn("filters.locations is empty; every location will pass")
	}
	if len(out.Filters.Categories) == 0 {
		res.addWarn("filters.categories is empty; every role will pass")
	}
	if out.Scrape.TargetDelaySeconds < 1 {
		res.addWarn("scrape.target_delay_seconds below 1s may trip board rate limits")
	}

	return out, res
}

// DomainTargets converts the configured targets, which must already have
// passed validation, into domain values.
func (c Config) DomainTargets() []domain.Target {
	out := make([]domain.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		platform, err := domain.ParsePlatform(t.Platform)
		if err != nil {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = strings.TrimSpace(t.Slug)
		}
		out = append(out, domain.Target{
			Name:     name,
			Platform: platform,
			Slug:     strings.TrimSpace(t.Slug),
		})
	}
	return out
}
