package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"watchhub/internal/dataset"
	"watchhub/pkg/utils"
)

func main() {
	var (
		outPath = flag.String("out", "data/mirror.json", "output JSON path")
		from    = flag.String("from", "", "dataset URL (defaults to WATCHHUB_DATASET_URL)")
	)
	flag.Parse()

	cfg := utils.LoadServerConfig()
	source := cfg.DatasetURL
	if *from != "" {
		source = *from
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := dataset.NewClient(source, cfg.FetchTimeout)
	series, err := client.Fetch(ctx)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	b, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}

	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("✅ snapshot of %d series written to %s", len(series), *outPath)
}
