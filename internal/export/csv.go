// Package export writes the per-company output files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/awwalm/real-job-dates/internal/domain"
)

var header = []string{"Company", "Title", "ID", "Department", "Location", "URL", "Date Published"}

// WriteCSV writes one file per company, newest listings first with
// unresolved dates at the end. The file is truncated on every run (no
// append, no merge) and always gets a header, so an empty board still
// leaves a header-only file downstream tooling can rely on.
func WriteCSV(dir string, target domain.Target, listings []domain.Listing) (string, error) {
	sorted := make([]domain.Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PostedAt, sorted[j].PostedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	name := fmt.Sprintf("%s_%s_jobs.csv", target.Platform, target.Slug)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, l := range sorted {
		row := []string{l.Company, l.Title, l.ExternalID, l.Department, l.Location, l.URL, l.PostedDate()}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
