package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Client searches recent Bluesky posts for the configured keywords through
// the public XRPC endpoints. A session is created lazily on first fetch.
type Client struct {
	Host       string
	Identifier string
	Password   string
	Keywords   []string
	MaxResults int

	HTTPClient *http.Client

	accessJWT string
}

func (c *Client) Name() string { return "Bluesky" }

type session struct {
	AccessJWT string `json:"accessJwt"`
	Handle    string `json:"handle"`
}

type searchResponse struct {
	Posts []struct {
		URI    string `json:"uri"`
		Author struct {
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
		} `json:"author"`
		Record struct {
			Text      string    `json:"text"`
			CreatedAt time.Time `json:"createdAt"`
		} `json:"record"`
	} `json:"posts"`
}

func (c *Client) Fetch(ctx context.Context) ([]models.Article, error) {
	if len(c.Keywords) == 0 {
		return nil, nil
	}
	if err := c.login(ctx); err != nil {
		return nil, fmt.Errorf("bluesky login: %w", err)
	}

	var all []models.Article
	seen := make(map[string]struct{})
	for _, keyword := range c.Keywords {
		posts, err := c.search(ctx, keyword)
		if err != nil {
			log.Printf("[bluesky] search %q failed: %v (skipping)", keyword, err)
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

func (c *Client) login(ctx context.Context) error {
	if c.accessJWT != "" {
		return nil
	}
	body, err := json.Marshal(map[string]string{
		"identifier": c.Identifier,
		"password":   c.Password,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Host+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("createSession: %s", resp.Status)
	}
	var sess session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return err
	}
	if sess.AccessJWT == "" {
		return fmt.Errorf("createSession returned no access token")
	}
	c.accessJWT = sess.AccessJWT
	return nil
}

func (c *Client) search(ctx context.Context, keyword string) ([]models.Article, error) {
	params := url.Values{}
	params.Add("q", keyword)
	params.Add("sort", "latest")
	if c.MaxResults > 0 {
		params.Add("limit", fmt.Sprintf("%d", c.MaxResults))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.Host+"/xrpc/app.bsky.feed.searchPosts?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessJWT)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searchPosts: %s", resp.Status)
	}
	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0, len(result.Posts))
	for _, p := range result.Posts {
		webURL := postURL(p.URI, p.Author.Handle)
		if webURL == "" {
			continue
		}
		text := helpers.CleanText(p.Record.Text)
		articles = append(articles, models.Article{
			Source:      "Bluesky",
			Author:      "@" + p.Author.Handle,
			Title:       helpers.Truncate(text, 200),
			Summary:     text,
			PublishedAt: p.Record.CreatedAt.UTC(),
			URL:         webURL,
		})
	}
	return articles, nil
}

// postURL turns an at:// record URI into the public post URL.
// at://did:plc:abc/app.bsky.feed.post/rkey -> https://bsky.app/profile/<handle>/post/<rkey>
func postURL(uri, handle string) string {
	const marker = "/app.bsky.feed.post/"
	j := strings.Index(uri, marker)
	if j < 0 {
		return ""
	}
	rkey := uri[j+len(marker):]
	if rkey == "" || handle == "" {
		return ""
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
