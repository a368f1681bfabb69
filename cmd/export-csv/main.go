package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"watchhub/internal/dataset"
	"watchhub/pkg/models"
	"watchhub/pkg/utils"
)

func main() {
	var (
		seriesOut = flag.String("series", "data/series.csv", "output CSV path for series")
		stepsOut  = flag.String("steps", "data/steps.csv", "output CSV path for watch order steps")
		from      = flag.String("from", "", "dataset URL (defaults to WATCHHUB_DATASET_URL)")
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

	if err := exportSeries(series, *seriesOut); err != nil {
		log.Fatalf("export series failed: %v", err)
	}
	if err := exportSteps(series, *stepsOut); err != nil {
		log.Fatalf("export steps failed: %v", err)
	}

	log.Printf("✅ exported series to %s and steps to %s", *seriesOut, *stepsOut)
}

func exportSeries(series []models.Series, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "alt_titles", "orders"}); err != nil {
		return err
	}

	for _, s := range series {
		if err := w.Write([]string{
			s.Title,
			strings.Join(s.AltTitles, ";"),
			strconv.Itoa(len(s.Orders)),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func exportSteps(series []models.Series, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"series", "order", "position", "title", "optional", "anilist_id"}); err != nil {
		return err
	}

	for _, s := range series {
		for _, o := range s.Orders {
			for i, st := range o.Steps {
				id := ""
				if st.AnilistID != nil {
					id = strconv.Itoa(*st.AnilistID)
				}

				if err := w.Write([]string{
					s.Title,
					o.Name,
					strconv.Itoa(i + 1),
					st.Title,
					strconv.FormatBool(st.Optional),
					id,
				}); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}
