package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davecollins/newsintel/models"
)

type stubSource struct {
	name     string
	articles []models.Article
	err      error
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) Fetch(context.Context) ([]models.Article, error) {
	return s.articles, s.err
}

func TestCollectSkipsFailingSource(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	c := Collector{
		Window: 48 * time.Hour,
		Sources: []Source{
			stubSource{name: "broken", err: errors.New("dial tcp: timeout")},
			stubSource{name: "ok", articles: []models.Article{
				{Source: "OK", Title: "a", URL: "https://e.com/a", PublishedAt: now},
			}},
		},
	}
	got := c.Collect(context.Background())
	if len(got) != 1 || got[0].URL != "https://e.com/a" {
		t.Fatalf("Collect = %+v, want the one good article", got)
	}
}

func TestCollectWindowAndDedup(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	c := Collector{
		Window:          48 * time.Hour,
		WindowOverrides: map[string]time.Duration{"Slowpoke": 72 * time.Hour},
		Sources: []Source{
			stubSource{name: "a", articles: []models.Article{
				{Source: "A", Title: "fresh", URL: "https://e.com/1", PublishedAt: now.Add(-time.Hour)},
				{Source: "A", Title: "stale", URL: "https://e.com/2", PublishedAt: now.Add(-72 * time.Hour)},
				{Source: "A", Title: "undated", URL: "https://e.com/3"},
				{Source: "A", Title: "no url", PublishedAt: now},
			}},
			stubSource{name: "b", articles: []models.Article{
				{Source: "B", Title: "dup", URL: "https://e.com/1", PublishedAt: now},
				{Source: "B", Title: "dup with tracking", URL: "https://e.com/1?utm_source=feed", PublishedAt: now},
				{Source: "Slowpoke", Title: "old but allowed", URL: "https://e.com/4", PublishedAt: now.Add(-60 * time.Hour)},
			}},
		},
	}
	got := c.Collect(context.Background())
	if len(got) != 2 {
		t.Fatalf("Collect kept %d articles, want 2: %+v", len(got), got)
	}
	if got[0].URL != "https://e.com/1" || got[1].URL != "https://e.com/4" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}
