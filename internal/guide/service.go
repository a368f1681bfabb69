package guide

import (
	"context"
	"fmt"
	"log"
	"time"

	"watchhub/internal/dataset"
	"watchhub/internal/metrics"
	"watchhub/pkg/models"
)

// MetadataSource hydrates anilist ids into displayable media records.
// Implemented by anilist.Client.
type MetadataSource interface {
	MediaByIDs(ctx context.Context, ids []int) (map[int]models.Media, error)
}

// Result is one finished lookup.
type Result struct {
	MediaID int                  `json:"media_id"`
	Found   bool                 `json:"found"`
	Series  string               `json:"series,omitempty"`
	Order   string               `json:"order,omitempty"`
	Items   []models.DisplayItem `json:"items"`
}

// Service runs lookups: dataset cache, resolver, hydration, assembly.
type Service struct {
	Cache *dataset.Cache
	Meta  MetadataSource
}

func NewService(cache *dataset.Cache, meta MetadataSource) *Service {
	return &Service{Cache: cache, Meta: meta}
}

// Lookup resolves mediaID against the dataset and assembles the display
// list. A miss returns a found=false result with the not-found block;
// only dataset or provider failures return an error.
func (s *Service) Lookup(ctx context.Context, mediaID int) (Result, error) {
	start := time.Now()

	series, err := s.Cache.GetOrFetch(ctx)
	if err != nil {
		metrics.ObserveLookup("error", time.Since(start))
		return Result{}, err
	}

	match, ok := Resolve(series, mediaID)
	if !ok {
		metrics.ObserveLookup("not_found", time.Since(start))
		log.Printf("[guide] lookup %d: no match", mediaID)
		return Result{MediaID: mediaID, Found: false, Items: NotFoundItems()}, nil
	}

	media, err := s.Meta.MediaByIDs(ctx, stepIDs(match.Order))
	if err != nil {
		metrics.ObserveLookup("error", time.Since(start))
		return Result{}, fmt.Errorf("guide: hydrate media: %w", err)
	}

	res := Result{
		MediaID: mediaID,
		Found:   true,
		Series:  match.Series.Title,
		Order:   match.Order.Name,
		Items:   Assemble(match, media),
	}
	metrics.ObserveLookup("found", time.Since(start))
	log.Printf("[guide] lookup %d: %s / %s (%d items)", mediaID, res.Series, res.Order, len(res.Items))
	return res, nil
}

// stepIDs collects the distinct present ids of an order, in step order.
func stepIDs(o models.WatchOrder) []int {
	seen := make(map[int]bool, len(o.Steps))
	ids := make([]int, 0, len(o.Steps))
	for _, st := range o.Steps {
		if st.AnilistID == nil || seen[*st.AnilistID] {
			continue
		}
		seen[*st.AnilistID] = true
		ids = append(ids, *st.AnilistID)
	}
	return ids
}
