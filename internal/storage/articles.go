package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// csvHeader is the fixed column layout of the collected-articles CSV. The
// scoring stage appends CSS and Embeddings; earlier stages leave them empty.
var csvHeader = []string{
	"Source", "Author", "Title", "Short_Summary", "Description",
	"Content", "Published At", "URL", "CSS", "Embeddings",
}

// ArticleStore persists the run's collected articles as a CSV object.
type ArticleStore struct {
	blob Blob
	key  string
}

func NewArticleStore(blob Blob, key string) *ArticleStore {
	return &ArticleStore{blob: blob, key: key}
}

// Load reads all stored articles. A missing object is an empty store, not an
// error.
func (s *ArticleStore) Load(ctx context.Context) ([]models.Article, error) {
	data, err := s.blob.Get(ctx, s.key)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing articles csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	articles := make([]models.Article, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 8 {
			continue
		}
		a := models.Article{
			Source:      row[0],
			Author:      row[1],
			Title:       row[2],
			Summary:     row[3],
			Description: row[4],
			Content:     row[5],
			PublishedAt: helpers.ParseTimestamp(row[6]),
			URL:         row[7],
		}
		if len(row) > 8 && row[8] != "" {
			if css, err := strconv.ParseFloat(row[8], 64); err == nil {
				a.CSS = css
				a.Scored = true
			}
		}
		if len(row) > 9 && row[9] != "" {
			_ = json.Unmarshal([]byte(row[9]), &a.Embedding)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Save writes the full article set back, deduplicated by canonical URL
// (first record wins, matching append order).
func (s *ArticleStore) Save(ctx context.Context, articles []models.Article) error {
	seen := make(map[string]struct{}, len(articles))
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		key := helpers.URLKey(a.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		css := ""
		if a.Scored {
			css = strconv.FormatFloat(a.CSS, 'f', -1, 64)
		}
		emb := ""
		if len(a.Embedding) > 0 {
			raw, err := json.Marshal(a.Embedding)
			if err != nil {
				return fmt.Errorf("encoding embedding for %s: %w", a.URL, err)
			}
			emb = string(raw)
		}
		row := []string{
			a.Source, a.Author, a.Title, a.Summary, a.Description,
			a.Content, helpers.FormatTimestamp(a.PublishedAt), a.URL, css, emb,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return putWithRetry(ctx, s.blob, s.key, buf.Bytes())
}

// Append merges new articles into the stored set, skipping canonical URLs
// already present, and reports how many were added.
func (s *ArticleStore) Append(ctx context.Context, articles []models.Article) (int, error) {
	existing, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		known[helpers.URLKey(a.URL)] = struct{}{}
	}
	added := 0
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		key := helpers.URLKey(a.URL)
		if _, dup := known[key]; dup {
			continue
		}
		known[key] = struct{}{}
		existing = append(existing, a)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.Save(ctx, existing)
}
