package customsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Handle is one monitored X/Twitter account.
type Handle struct {
	Name   string
	Handle string
}

// Client finds recent posts from the monitored handles through the Google
// Custom Search API, since the platform's own API is not available to this
// pipeline. Search snippets are the only content we get, so posts carry the
// snippet as their title.
type Client struct {
	APIKey   string
	EngineID string
	Endpoint string
	Handles  []Handle

	HTTPClient *http.Client
}

func (c Client) Name() string { return "Custom Search" }

type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

func (c Client) Fetch(ctx context.Context) ([]models.Article, error) {
	var all []models.Article
	seen := make(map[string]struct{})
	for _, h := range c.Handles {
		posts, err := c.SearchHandle(ctx, h)
		if err != nil {
			log.Printf("[social] handle %s failed: %v (skipping)", h.Handle, err)
			continue
		}
		for _, p := range posts {
			if _, dup := seen[p.URL]; dup {
				continue
			}
			seen[p.URL] = struct{}{}
			all = append(all, p)
		}
	}
	return all, nil
}

// SearchHandle queries both site:twitter.com and site:x.com for one handle
// and keeps only status links whose author matches the handle.
func (c Client) SearchHandle(ctx context.Context, h Handle) ([]models.Article, error) {
	handle := strings.ToLower(strings.TrimPrefix(h.Handle, "@"))
	queries := []string{
		"site:twitter.com/" + handle,
		"site:x.com/" + handle,
	}

	var posts []models.Article
	seen := make(map[string]struct{})
	for _, query := range queries {
		items, err := c.search(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if !strings.Contains(item.Link, "/status") {
				continue
			}
			normalized := helpers.NormalizeSocialURL(item.Link)
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}

			if helpers.SocialAuthor(item.Link) != handle {
				continue
			}

			posts = append(posts, models.Article{
				Source:      h.Name,
				Author:      "@" + handle,
				Title:       cleanSnippet(item.Title),
				PublishedAt: time.Now().UTC(),
				URL:         normalized,
			})
		}
	}
	return posts, nil
}

func (c Client) search(ctx context.Context, query string) ([]struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}, error) {
	params := url.Values{}
	params.Add("key", c.APIKey)
	params.Add("cx", c.EngineID)
	params.Add("q", query)
	params.Add("num", "10")
	params.Add("dateRestrict", "w1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("custom search error: %s", resp.Status)
	}
	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

var (
	snippetPrefixRe = regexp.MustCompile(`^.*?\s*(?:on\s+X|·|:)\s*`)
	relativeTimeRe  = regexp.MustCompile(`\s*\d+\s*(?:minute|hour|day|week|month|year)s?\s*ago\s*`)
	snippetDateRe   = regexp.MustCompile(`\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},\s+\d{4}\s*`)
)

// cleanSnippet strips the boilerplate Google wraps around post snippets:
// the "<name> on X:" prefix, relative timestamps and date suffixes.
func cleanSnippet(s string) string {
	s = snippetPrefixRe.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, ": ")
	s = relativeTimeRe.ReplaceAllString(s, " ")
	s = snippetDateRe.ReplaceAllString(s, " ")
	return helpers.CleanText(s)
}
