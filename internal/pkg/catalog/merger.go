package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/internal/pkg/cache"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
	"github.com/ManuelReschke/StreamFox/internal/pkg/stream"
)

const (
	// CatalogKey holds the most-recent-first list of ready videos.
	CatalogKey = "latest"
	// FeatureKey holds the filtered per-feature video list.
	FeatureKey = "feature:videos"

	// rehydrateLimit bounds the catalog baseline fetched on cold start.
	rehydrateLimit = 10
)

// VideoLister is the slice of the provider client the merger needs.
type VideoLister interface {
	ListVideos(ctx context.Context, opts stream.ListOptions) ([]models.Video, error)
}

// Merger maintains the cached video projections updated by stream webhooks.
type Merger struct {
	store      cache.Store
	client     VideoLister
	featureTag string
}

func NewMerger(store cache.Store, client VideoLister) *Merger {
	return &Merger{
		store:      store,
		client:     client,
		featureTag: env.GetEnv("FEATURE_TAG", "featured"),
	}
}

// NewMergerWithTag is used where the feature tag must not come from env.
func NewMergerWithTag(store cache.Store, client VideoLister, tag string) *Merger {
	return &Merger{store: store, client: client, featureTag: tag}
}

// Handle merges one ready-video event into the cached projections. The
// catalog update and the feature-cache update run concurrently and fail
// independently. Only a catalog failure fails the event; a feature-cache
// failure is logged and the event still counts as handled.
func (m *Merger) Handle(ctx context.Context, video models.Video) error {
	var wg sync.WaitGroup
	var catalogErr, featureErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		catalogErr = m.updateCatalog(ctx, video)
	}()
	go func() {
		defer wg.Done()
		featureErr = m.updateFeatureCache(ctx, video)
	}()
	wg.Wait()

	if featureErr != nil {
		log.Printf("feature cache update failed for video %s: %v", video.UID, featureErr)
	}
	if catalogErr != nil {
		return fmt.Errorf("catalog update failed for video %s: %w", video.UID, catalogErr)
	}
	return nil
}

// updateCatalog prepends the video to the cached catalog, or rehydrates the
// catalog from the provider when no cache entry exists yet (cold start).
func (m *Merger) updateCatalog(ctx context.Context, video models.Video) error {
	cached, ok, err := m.store.Get(ctx, CatalogKey)
	if err != nil {
		return err
	}

	if !ok {
		videos, err := m.client.ListVideos(ctx, stream.ListOptions{
			Limit:  rehydrateLimit,
			Status: models.VideoStatusReady,
		})
		if err != nil {
			return err
		}
		return m.persist(ctx, CatalogKey, videos)
	}

	var videos []models.Video
	if err := json.Unmarshal([]byte(cached), &videos); err != nil {
		return fmt.Errorf("cached catalog is corrupt: %w", err)
	}
	videos = append([]models.Video{video}, videos...)
	return m.persist(ctx, CatalogKey, videos)
}

// updateFeatureCache replaces the feature cache from a fresh provider query
// whenever the incoming video belongs to the feature. The feature cache is
// never speculatively merged; it is authoritative-fresh or untouched.
func (m *Merger) updateFeatureCache(ctx context.Context, video models.Video) error {
	if m.featureTag == "" || !strings.Contains(strings.ToLower(video.Name()), strings.ToLower(m.featureTag)) {
		return nil
	}

	videos, err := m.client.ListVideos(ctx, stream.ListOptions{
		Status: models.VideoStatusReady,
		Search: m.featureTag,
	})
	if err != nil {
		return err
	}
	return m.persist(ctx, FeatureKey, videos)
}

func (m *Merger) persist(ctx context.Context, key string, videos []models.Video) error {
	if videos == nil {
		videos = []models.Video{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, key, string(data))
}
