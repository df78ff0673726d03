package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/davecollins/newsintel/models"
)

func newTestBlob(t *testing.T) *FSBlob {
	t.Helper()
	blob, err := NewFSBlob(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSBlob: %v", err)
	}
	return blob
}

func TestFSBlobMissingKey(t *testing.T) {
	t.Parallel()
	blob := newTestBlob(t)
	if _, err := blob.Get(context.Background(), "nope.csv"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Get missing key error = %v, want ErrNotFound", err)
	}
	ok, err := blob.Exists(context.Background(), "nope.csv")
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false, nil", ok, err)
	}
}

func TestArticleStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewArticleStore(newTestBlob(t), "news.csv")

	pub := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	articles := []models.Article{
		{
			Source:      "TechCrunch",
			Author:      "A. Reporter",
			Title:       "Chips, \"quotes\" and commas, oh my",
			Summary:     "A summary with, commas",
			PublishedAt: pub,
			URL:         "https://example.com/1",
			CSS:         0.71234,
			Scored:      true,
			Embedding:   []float64{0.1, 0.2},
		},
		{Source: "Wired", Title: "Second", PublishedAt: pub, URL: "https://example.com/2"},
	}
	if err := store.Save(ctx, articles); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d articles, want 2", len(got))
	}
	first := got[0]
	if first.Title != articles[0].Title || first.Summary != articles[0].Summary {
		t.Errorf("quoting not preserved: %+v", first)
	}
	if !first.Scored || first.CSS != 0.71234 {
		t.Errorf("CSS round trip = %v (scored=%v)", first.CSS, first.Scored)
	}
	if len(first.Embedding) != 2 || first.Embedding[1] != 0.2 {
		t.Errorf("embedding round trip = %v", first.Embedding)
	}
	if !first.PublishedAt.Equal(pub) {
		t.Errorf("published at = %v, want %v", first.PublishedAt, pub)
	}
	if got[1].Scored {
		t.Errorf("unscored article came back scored")
	}
}

func TestArticleStoreLoadEmpty(t *testing.T) {
	t.Parallel()
	store := NewArticleStore(newTestBlob(t), "news.csv")
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing object: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d", len(got))
	}
}

func TestArticleStoreDedupByURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewArticleStore(newTestBlob(t), "news.csv")

	dupes := []models.Article{
		{Source: "A", Title: "first", URL: "https://example.com/x"},
		{Source: "B", Title: "second", URL: "https://example.com/x"},
		{Source: "C", Title: "no url"},
	}
	if err := store.Save(ctx, dupes); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1 (URL is the sole dedup key)", len(got))
	}
	if got[0].Title != "first" {
		t.Errorf("dedup kept %q, want first record", got[0].Title)
	}
}

func TestArticleStoreAppend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewArticleStore(newTestBlob(t), "news.csv")

	if err := store.Save(ctx, []models.Article{{Source: "A", Title: "one", URL: "https://e.com/1"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	added, err := store.Append(ctx, []models.Article{
		{Source: "A", Title: "one again", URL: "https://e.com/1"},
		{Source: "B", Title: "two", URL: "https://e.com/2"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if added != 1 {
		t.Fatalf("Append added %d, want 1", added)
	}
	got, _ := store.Load(ctx)
	if len(got) != 2 {
		t.Fatalf("store holds %d, want 2", len(got))
	}
}

func TestArticleStoreAppendCanonicalIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewArticleStore(newTestBlob(t), "news.csv")

	if err := store.Save(ctx, []models.Article{
		{Source: "A", Title: "story", URL: "https://example.com/story"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	added, err := store.Append(ctx, []models.Article{
		{Source: "A", Title: "story via feed", URL: "https://example.com/story?utm_source=rss"},
		{Source: "A", Title: "other", URL: "https://example.com/other"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if added != 1 {
		t.Fatalf("Append added %d, want 1 (tracking-param variant is the same article)", added)
	}
	got, _ := store.Load(ctx)
	if len(got) != 2 {
		t.Fatalf("store holds %d, want 2", len(got))
	}
}

func TestLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(newTestBlob(t), "sent_articles.txt")

	sent, err := ledger.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("fresh ledger has %d entries", len(sent))
	}

	if err := ledger.Add(ctx, []string{"https://e.com/1", "https://e.com/2", ""}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ledger.Add(ctx, []string{"https://e.com/2", "https://e.com/3"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sent, err = ledger.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sent) != 3 {
		t.Fatalf("ledger has %d entries, want 3 (a URL appears at most once)", len(sent))
	}
	if _, ok := sent["https://e.com/1"]; !ok {
		t.Errorf("missing first url")
	}
}

func TestLedgerCanonicalKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(newTestBlob(t), "sent_articles.txt")

	if err := ledger.Add(ctx, []string{"https://e.com/1?utm_source=rss#frag"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ledger.Add(ctx, []string{"https://e.com/1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sent, err := ledger.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("ledger has %d entries, want 1 (variants share one canonical key)", len(sent))
	}
	if _, ok := sent["https://e.com/1"]; !ok {
		t.Fatalf("ledger keys = %v, want canonical url", sent)
	}
}

func TestLoadInterests(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	blob := newTestBlob(t)

	_, err := LoadInterests(ctx, blob, "interests.json")
	if err == nil {
		t.Fatalf("expected error for missing interests object")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("missing-set error = %v, want a not-found message", err)
	}

	if err := blob.Put(ctx, "interests.json", []byte(`{"semiconductors":[0.1,0.9],"ai":[0.9,0.1]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	interests, err := LoadInterests(ctx, blob, "interests.json")
	if err != nil {
		t.Fatalf("LoadInterests: %v", err)
	}
	if len(interests) != 2 || len(interests["ai"]) != 2 {
		t.Fatalf("unexpected interests: %v", interests)
	}

	if err := blob.Put(ctx, "empty.json", []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := LoadInterests(ctx, blob, "empty.json"); err == nil {
		t.Fatalf("expected error for empty interest set")
	}
}
