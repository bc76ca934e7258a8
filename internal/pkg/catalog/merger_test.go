package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
	"github.com/ManuelReschke/StreamFox/internal/pkg/stream"
)

type fakeLister struct {
	mu      sync.Mutex
	calls   []stream.ListOptions
	results map[string][]models.Video // keyed by Search option
	err     error
}

func (f *fakeLister) ListVideos(_ context.Context, opts stream.ListOptions) ([]models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[opts.Search], nil
}

func video(uid, name string) models.Video {
	return models.Video{
		UID:    uid,
		Status: models.VideoStatus{State: models.VideoStatusReady},
		Meta:   models.VideoMeta{Name: name},
	}
}

func cachedVideos(t *testing.T, store cache.Store, key string) []models.Video {
	t.Helper()
	raw, ok, err := store.Get(context.Background(), key)
	assert.NoError(t, err)
	if !ok {
		return nil
	}
	var videos []models.Video
	assert.NoError(t, json.Unmarshal([]byte(raw), &videos))
	return videos
}

func TestHandleColdStartRehydratesCatalog(t *testing.T) {
	store := cache.NewMemoryStore()
	lister := &fakeLister{results: map[string][]models.Video{
		"": {video("a", "clip a"), video("b", "clip b")},
	}}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("v", "plain clip"))
	assert.NoError(t, err)

	// The baseline is the provider's fresh fetch, not [v] alone.
	got := cachedVideos(t, store, CatalogKey)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].UID)
	assert.Equal(t, "b", got[1].UID)

	assert.Len(t, lister.calls, 1)
	assert.Equal(t, 10, lister.calls[0].Limit)
	assert.Equal(t, models.VideoStatusReady, lister.calls[0].Status)
}

func TestHandlePrependsToExistingCatalog(t *testing.T) {
	store := cache.NewMemoryStore()
	existing, _ := json.Marshal([]models.Video{video("a", "clip a"), video("b", "clip b")})
	assert.NoError(t, store.Set(context.Background(), CatalogKey, string(existing)))

	lister := &fakeLister{results: map[string][]models.Video{}}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("v", "plain clip"))
	assert.NoError(t, err)

	got := cachedVideos(t, store, CatalogKey)
	assert.Len(t, got, 3)
	assert.Equal(t, "v", got[0].UID)
	assert.Equal(t, "a", got[1].UID)
	assert.Equal(t, "b", got[2].UID)

	// No provider call needed when the catalog cache exists and the video
	// is not part of the feature.
	assert.Empty(t, lister.calls)
}

func TestHandleFeatureCacheReplacedOnMatch(t *testing.T) {
	store := cache.NewMemoryStore()
	existing, _ := json.Marshal([]models.Video{video("a", "clip a")})
	assert.NoError(t, store.Set(context.Background(), CatalogKey, string(existing)))

	stale, _ := json.Marshal([]models.Video{video("old", "Featured old")})
	assert.NoError(t, store.Set(context.Background(), FeatureKey, string(stale)))

	lister := &fakeLister{results: map[string][]models.Video{
		"featured": {video("f1", "Featured one"), video("f2", "Featured two")},
	}}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("f1", "Featured one"))
	assert.NoError(t, err)

	// Full replace from the filtered provider query, not a merge.
	got := cachedVideos(t, store, FeatureKey)
	assert.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].UID)
	assert.Equal(t, "f2", got[1].UID)

	var featureCall *stream.ListOptions
	for i := range lister.calls {
		if lister.calls[i].Search != "" {
			featureCall = &lister.calls[i]
		}
	}
	if assert.NotNil(t, featureCall) {
		assert.Equal(t, "featured", featureCall.Search)
		assert.Equal(t, models.VideoStatusReady, featureCall.Status)
		assert.Zero(t, featureCall.Limit)
	}
}

func TestHandleFeatureCacheUntouchedOnMismatch(t *testing.T) {
	store := cache.NewMemoryStore()
	existing, _ := json.Marshal([]models.Video{video("a", "clip a")})
	assert.NoError(t, store.Set(context.Background(), CatalogKey, string(existing)))

	stale, _ := json.Marshal([]models.Video{video("old", "Featured old")})
	assert.NoError(t, store.Set(context.Background(), FeatureKey, string(stale)))

	lister := &fakeLister{}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("v", "unrelated clip"))
	assert.NoError(t, err)

	got := cachedVideos(t, store, FeatureKey)
	assert.Len(t, got, 1)
	assert.Equal(t, "old", got[0].UID)
}

func TestHandleCatalogFailureFailsEvent(t *testing.T) {
	store := cache.NewMemoryStore()
	lister := &fakeLister{err: errors.New("provider down")}
	merger := NewMergerWithTag(store, lister, "featured")

	// Cold start forces a provider fetch, which fails.
	err := merger.Handle(context.Background(), video("v", "plain clip"))
	assert.Error(t, err)
}

func TestHandleFeatureFailureDoesNotFailEvent(t *testing.T) {
	store := cache.NewMemoryStore()
	existing, _ := json.Marshal([]models.Video{video("a", "clip a")})
	assert.NoError(t, store.Set(context.Background(), CatalogKey, string(existing)))

	// The only provider call is the feature refresh, and it fails.
	lister := &fakeLister{err: errors.New("provider down")}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("f1", "Featured one"))
	assert.NoError(t, err)

	// The catalog branch still went through.
	got := cachedVideos(t, store, CatalogKey)
	assert.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].UID)
}

func TestHandleFeatureMatchIsCaseInsensitive(t *testing.T) {
	store := cache.NewMemoryStore()
	existing, _ := json.Marshal([]models.Video{})
	assert.NoError(t, store.Set(context.Background(), CatalogKey, string(existing)))

	lister := &fakeLister{results: map[string][]models.Video{
		"featured": {video("f1", "FEATURED loud")},
	}}
	merger := NewMergerWithTag(store, lister, "featured")

	err := merger.Handle(context.Background(), video("f1", "FEATURED loud"))
	assert.NoError(t, err)

	got := cachedVideos(t, store, FeatureKey)
	assert.Len(t, got, 1)
}
