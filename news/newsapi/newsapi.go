package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

type response struct {
	Status       string       `json:"status"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

// Client queries the NewsAPI "everything" endpoint for the configured
// interest queries.
type Client struct {
	APIKey     string
	Endpoint   string
	Queries    []string
	MaxResults int
	Window     time.Duration

	HTTPClient *http.Client
}

func (c Client) Name() string { return "NewsAPI" }

// buildQuery wraps each term in quotes and joins with OR.
func buildQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, " OR ")
}

func (c Client) Fetch(ctx context.Context) ([]models.Article, error) {
	if len(c.Queries) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Add("q", buildQuery(c.Queries))
	params.Add("sortBy", "publishedAt")
	params.Add("language", "en")
	if c.Window > 0 {
		params.Add("from", time.Now().UTC().Add(-c.Window).Format("2006-01-02"))
	}
	if c.MaxResults > 0 {
		params.Add("pageSize", fmt.Sprintf("%d", c.MaxResults))
	}
	params.Add("apiKey", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", c.Endpoint, params.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi error: %s", resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", result.Status, result.Message)
	}

	articles := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		source := a.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		description := helpers.CleanText(a.Description)
		articles = append(articles, models.Article{
			Source:      source,
			Author:      helpers.CleanText(a.Author),
			Title:       helpers.CleanText(a.Title),
			Summary:     description,
			Description: description,
			PublishedAt: a.PublishedAt.UTC(),
			URL:         a.URL,
		})
	}
	return articles, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
