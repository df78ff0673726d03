package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("object not found")

// Article is the normalized record every collector produces. The URL is the
// identity of an article: deduplication and the sent ledger key off it.
type Article struct {
	Source      string
	Author      string
	Title       string
	Summary     string
	Description string
	Content     string
	PublishedAt time.Time
	URL         string

	// Populated by the scoring stage.
	CSS       float64
	Scored    bool
	Embedding []float64
}

// Text returns the string the embedding stage scores an article on: source,
// title and summary joined, empty when the article carries no usable text.
func (a Article) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Source, a.Title, a.Summary} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
