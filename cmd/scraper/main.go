package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/awwalm/real-job-dates/internal/config"
	"github.com/awwalm/real-job-dates/internal/scrape"
)

// defaultConfigPath locates the shipped config template. JOBDATES_CONFIG
// overrides it; otherwise it is looked up next to the binary so first-run
// bootstrap works from any working directory, with a cwd-relative path as
// the dev-tree fallback.
func defaultConfigPath() string {
	if p := os.Getenv("JOBDATES_CONFIG"); p != "" {
		return p
	}
	rel := filepath.Join("config", "config.yml")
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), rel)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return rel
}

func main() {
	dataDir := os.Getenv("JOBDATES_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultConfigPath())
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	cfg, res := config.NormalizeAndValidate(cfg)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	sum, err := scrape.Run(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[run] aborted: %v", err)
	}
	log.Printf("[run] done targets=%d failed=%d listings=%d files=%d",
		sum.Targets, sum.Failed, sum.Listings, len(sum.Files))
}
