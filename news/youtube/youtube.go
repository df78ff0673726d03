package youtube

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

// Channel is one monitored YouTube channel.
type Channel struct {
	Name string
	ID   string
}

// Client lists recent uploads for the monitored channels through the YouTube
// Data API v3. Shorts (under a minute) are filtered out.
type Client struct {
	APIKey   string
	Endpoint string
	Channels []Channel

	HTTPClient *http.Client
}

func (c Client) Name() string { return "YouTube" }

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  time.Time `json:"publishedAt"`
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c Client) Fetch(ctx context.Context) ([]models.Article, error) {
	var all []models.Article
	var lastErr error
	for _, ch := range c.Channels {
		articles, err := c.fetchChannel(ctx, ch)
		if err != nil {
			log.Printf("[youtube] channel %s failed: %v (skipping)", ch.Name, err)
			lastErr = err
			continue
		}
		all = append(all, articles...)
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

func (c Client) fetchChannel(ctx context.Context, ch Channel) ([]models.Article, error) {
	params := url.Values{}
	params.Add("part", "snippet")
	params.Add("channelId", ch.ID)
	params.Add("order", "date")
	params.Add("type", "video")
	params.Add("maxResults", "10")
	params.Add("key", c.APIKey)

	var search searchResponse
	if err := c.getJSON(ctx, "/search", params, &search); err != nil {
		return nil, err
	}
	if len(search.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	durations, err := c.fetchDurations(ctx, ids)
	if err != nil {
		// Duration filtering is best-effort; include everything when the
		// lookup fails.
		log.Printf("[youtube] duration lookup failed: %v", err)
		durations = nil
	}

	articles := make([]models.Article, 0, len(search.Items))
	for _, item := range search.Items {
		id := item.ID.VideoID
		if id == "" {
			continue
		}
		if durations != nil && !longEnough(durations[id]) {
			continue
		}
		articles = append(articles, models.Article{
			Source:      ch.Name,
			Author:      helpers.CleanText(item.Snippet.ChannelTitle),
			Title:       helpers.CleanText(item.Snippet.Title),
			Summary:     helpers.Truncate(helpers.CleanText(item.Snippet.Description), 500),
			Description: helpers.CleanText(item.Snippet.Description),
			PublishedAt: item.Snippet.PublishedAt.UTC(),
			URL:         "https://www.youtube.com/watch?v=" + id,
		})
	}
	return articles, nil
}

func (c Client) fetchDurations(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	params := url.Values{}
	params.Add("part", "contentDetails")
	params.Add("id", strings.Join(ids, ","))
	params.Add("key", c.APIKey)

	var videos videosResponse
	if err := c.getJSON(ctx, "/videos", params, &videos); err != nil {
		return nil, err
	}
	durations := make(map[string]string, len(videos.Items))
	for _, v := range videos.Items {
		durations[v.ID] = v.ContentDetails.Duration
	}
	return durations, nil
}

func (c Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+path+"?"+params.Encode(), nil)
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
		return fmt.Errorf("youtube api error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var durationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// longEnough reports whether an ISO 8601 duration is at least a minute.
// Unparseable durations are included rather than dropped.
func longEnough(duration string) bool {
	if duration == "" {
		return true
	}
	m := durationRe.FindStringSubmatch(duration)
	if m == nil {
		return true
	}
	return m[1] != "" || m[2] != ""
}
