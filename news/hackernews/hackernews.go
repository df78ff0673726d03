package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Client pulls the current top stories from the Hacker News Firebase API.
type Client struct {
	Endpoint   string
	MaxStories int

	HTTPClient *http.Client
}

func (c Client) Name() string { return "Hacker News" }

type item struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
}

func (c Client) Fetch(ctx context.Context) ([]models.Article, error) {
	var ids []int
	if err := c.getJSON(ctx, c.Endpoint+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}
	limit := c.MaxStories
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}

	articles := make([]models.Article, 0, limit)
	for _, id := range ids[:limit] {
		var it item
		if err := c.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", c.Endpoint, id), &it); err != nil {
			log.Printf("[hackernews] item %d failed: %v (skipping)", id, err)
			continue
		}
		if it.Type != "story" || it.URL == "" || it.Title == "" {
			continue
		}
		articles = append(articles, models.Article{
			Source:      "Hacker News",
			Author:      it.By,
			Title:       helpers.CleanText(it.Title),
			Summary:     fmt.Sprintf("%d points on Hacker News", it.Score),
			PublishedAt: time.Unix(it.Time, 0).UTC(),
			URL:         it.URL,
		})
	}
	return articles, nil
}

func (c Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hacker news api error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
