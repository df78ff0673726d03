package rss

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Feed fetches one RSS/Atom feed and normalizes its entries.
type Feed struct {
	URL    string
	parser *gofeed.Parser
}

func NewFeed(feedURL string) *Feed {
	return &Feed{URL: feedURL, parser: gofeed.NewParser()}
}

func (f *Feed) Name() string { return SourceName(f.URL) }

func (f *Feed) Fetch(ctx context.Context) ([]models.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", f.URL, err)
	}

	source := SourceName(f.URL)
	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		var pub time.Time
		if item.PublishedParsed != nil {
			pub = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			pub = item.UpdatedParsed.UTC()
		}

		description := helpers.CleanText(item.Description)
		content := helpers.CleanText(item.Content)
		summary := description
		if content != "" && description != "" {
			summary = description + " // " + content
		} else if content != "" {
			summary = content
		}

		author := ""
		if len(item.Authors) > 0 {
			author = helpers.CleanText(item.Authors[0].Name)
		}

		articles = append(articles, models.Article{
			Source:      source,
			Author:      author,
			Title:       helpers.CleanText(item.Title),
			Summary:     helpers.Truncate(summary, 1000),
			Description: description,
			Content:     content,
			PublishedAt: pub,
			URL:         item.Link,
		})
	}
	return articles, nil
}

// wellKnownHosts maps feed hosts that would otherwise title-case badly.
var wellKnownHosts = []struct {
	fragment string
	name     string
}{
	{"ft.com", "Financial Times"},
	{"dj.com", "Wall Street Journal"},
	{"nytimes.com", "New York Times"},
	{"reutersagency.com", "Reuters"},
	{"reuters.com", "Reuters"},
	{"techcrunch.com", "TechCrunch"},
	{"theverge.com", "The Verge"},
	{"scmp.com", "South China Morning Post"},
	{"businesstimes.com.sg", "Business Times"},
	{"arstechnica.com", "Ars Technica"},
	{"ieee.org", "IEEE Spectrum"},
}

// SourceName derives a readable source name from a feed URL. Bloomberg feeds
// keep their section suffix so "Bloomberg Markets" and "Bloomberg Technology"
// stay distinct sources.
func SourceName(feedURL string) string {
	for _, h := range wellKnownHosts {
		if strings.Contains(feedURL, h.fragment) {
			return h.name
		}
	}
	if strings.Contains(feedURL, "bloomberg.com") {
		parts := strings.Split(feedURL, "/")
		if len(parts) > 3 && parts[3] != "" {
			return "Bloomberg " + titleCase(parts[3])
		}
		return "Bloomberg"
	}

	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Host == "" {
		return feedURL
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	labels := strings.Split(host, ".")
	base := labels[0]
	if len(labels) >= 2 {
		base = labels[len(labels)-2]
	}
	return titleCase(strings.ReplaceAll(base, "-", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
