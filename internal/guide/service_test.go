package guide

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchhub/internal/dataset"
	"watchhub/pkg/models"
)

type fakeMeta struct {
	media map[int]models.Media
	calls [][]int
	err   error
}

func (f *fakeMeta) MediaByIDs(_ context.Context, ids []int) (map[int]models.Media, error) {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]models.Media, len(ids))
	for _, id := range ids {
		if m, ok := f.media[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func testDataset() []models.Series {
	return []models.Series{{
		Title:        "Katanagatari",
		PrologueHTML: "<p>Watch in order.</p>",
		Orders: []models.WatchOrder{{
			Name: "Broadcast order",
			Steps: []models.Step{
				{Title: "First half", AnilistID: intPtr(1)},
				{Title: "Second half", AnilistID: intPtr(2)},
			},
		}},
	}}
}

func serveDataset(t *testing.T, series []models.Series, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(series)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(srvURL string, meta MetadataSource) *Service {
	cache := dataset.NewCache(dataset.NewClient(srvURL, 2*time.Second))
	return NewService(cache, meta)
}

func TestServiceLookup_Found(t *testing.T) {
	srv := serveDataset(t, testDataset(), nil)
	meta := &fakeMeta{media: map[int]models.Media{
		1: {ID: 1, Title: "Katanagatari (1st half)"},
		2: {ID: 2, Title: "Katanagatari (2nd half)"},
	}}
	svc := newTestService(srv.URL, meta)

	res, err := svc.Lookup(context.Background(), 2)
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, 2, res.MediaID)
	assert.Equal(t, "Katanagatari", res.Series)
	assert.Equal(t, "Broadcast order", res.Order)

	require.Len(t, res.Items, 3)
	assert.Equal(t, models.ItemTextBlock, res.Items[0].Kind)
	assert.Equal(t, "Watch in order.", res.Items[0].Block.Chunks[0].Content)
	assert.Equal(t, 1, res.Items[1].Media.ID)
	assert.Equal(t, 2, res.Items[2].Media.ID)

	// one hydration round trip for the whole order
	require.Len(t, meta.calls, 1)
	assert.Equal(t, []int{1, 2}, meta.calls[0])
}

func TestServiceLookup_NotFound(t *testing.T) {
	srv := serveDataset(t, testDataset(), nil)
	meta := &fakeMeta{}
	svc := newTestService(srv.URL, meta)

	res, err := svc.Lookup(context.Background(), 424242)
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.Equal(t, 424242, res.MediaID)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "No watch order found for this anime.", res.Items[0].Block.Chunks[0].Content)

	// a miss never reaches the metadata provider
	assert.Empty(t, meta.calls)
}

func TestServiceLookup_DatasetError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	svc := newTestService(srv.URL, &fakeMeta{})

	_, err := svc.Lookup(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrFetch)
}

func TestServiceLookup_MetaError(t *testing.T) {
	srv := serveDataset(t, testDataset(), nil)
	meta := &fakeMeta{err: errors.New("provider down")}
	svc := newTestService(srv.URL, meta)

	_, err := svc.Lookup(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hydrate media")
}

func TestServiceLookup_FetchesDatasetOnce(t *testing.T) {
	var hits int32
	srv := serveDataset(t, testDataset(), &hits)
	meta := &fakeMeta{media: map[int]models.Media{
		1: {ID: 1, Title: "First half"},
		2: {ID: 2, Title: "Second half"},
	}}
	svc := newTestService(srv.URL, meta)

	_, err := svc.Lookup(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Lookup(context.Background(), 424242)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestServiceLookup_DuplicateStepIDs(t *testing.T) {
	series := []models.Series{{
		Title: "Rewatch heavy",
		Orders: []models.WatchOrder{{
			Name: "With a rewatch",
			Steps: []models.Step{
				{Title: "Season one", AnilistID: intPtr(1)},
				{Title: "Movie", AnilistID: intPtr(2)},
				{Title: "Season one again", AnilistID: intPtr(1)},
			},
		}},
	}}
	srv := serveDataset(t, series, nil)
	meta := &fakeMeta{media: map[int]models.Media{
		1: {ID: 1, Title: "Season one"},
		2: {ID: 2, Title: "Movie"},
	}}
	svc := newTestService(srv.URL, meta)

	res, err := svc.Lookup(context.Background(), 1)
	require.NoError(t, err)

	// the rewatch step still renders, but the id is fetched once
	require.Len(t, res.Items, 3)
	require.Len(t, meta.calls, 1)
	assert.Equal(t, []int{1, 2}, meta.calls[0])
}
