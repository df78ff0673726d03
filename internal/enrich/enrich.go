package enrich

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Enricher fills in a summary for collected items that arrive without one
// (Hacker News stories, bare social links) by fetching the page and running
// readability extraction over it.
type Enricher struct {
	Timeout time.Duration

	HTTPClient *http.Client
}

const excerptLimit = 500

// Apply enriches articles lacking a summary, in place. Extraction failures
// only log; the article keeps its empty summary.
func (e Enricher) Apply(ctx context.Context, articles []models.Article) []models.Article {
	for i := range articles {
		if articles[i].Summary != "" || articles[i].URL == "" {
			continue
		}
		excerpt, err := e.extract(ctx, articles[i].URL)
		if err != nil {
			log.Printf("[enrich] %s: %v (keeping empty summary)", articles[i].URL, err)
			continue
		}
		articles[i].Summary = excerpt
	}
	return articles
}

func (e Enricher) extract(ctx context.Context, rawURL string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned %s", resp.Status)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	excerpt := article.Excerpt
	if excerpt == "" {
		excerpt = article.TextContent
	}
	return helpers.Truncate(helpers.CleanText(excerpt), excerptLimit), nil
}
