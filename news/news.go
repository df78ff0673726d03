package news

import (
	"context"
	"log"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Source is one upstream feed. Implementations return whatever the upstream
// currently serves; the Collector owns windowing and deduplication.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Article, error)
}

// Collector fans out over the configured sources. A failing source degrades
// the result instead of aborting the run.
type Collector struct {
	Sources         []Source
	Window          time.Duration
	WindowOverrides map[string]time.Duration
}

// Collect fetches every source in order and returns the normalized records
// for the current run window, deduplicated by canonical URL within the batch.
func (c Collector) Collect(ctx context.Context) []models.Article {
	var collected []models.Article
	seen := make(map[string]struct{})

	for _, src := range c.Sources {
		articles, err := src.Fetch(ctx)
		if err != nil {
			log.Printf("[collect] source %s failed: %v (skipping)", src.Name(), err)
			continue
		}
		kept := 0
		for _, a := range articles {
			if a.URL == "" {
				continue
			}
			if !c.withinWindow(a) {
				continue
			}
			key := helpers.URLKey(a.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			collected = append(collected, a)
			kept++
		}
		log.Printf("[collect] %s: %d fetched, %d kept", src.Name(), len(articles), kept)
	}
	return collected
}

func (c Collector) withinWindow(a models.Article) bool {
	if a.PublishedAt.IsZero() {
		return false
	}
	window := c.Window
	if override, ok := c.WindowOverrides[a.Source]; ok {
		window = override
	}
	return time.Since(a.PublishedAt) <= window
}
