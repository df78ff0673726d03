package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSourceName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"https://feeds.bloomberg.com/technology/news.rss", "Bloomberg Technology"},
		{"https://www.ft.com/news-feed?format=rss", "Financial Times"},
		{"https://feeds.a.dj.com/rss/RSSMarketsMain.xml", "Wall Street Journal"},
		{"https://rss.nytimes.com/services/xml/rss/nyt/Business.xml", "New York Times"},
		{"https://techcrunch.com/feed/", "TechCrunch"},
		{"https://www.nextplatform.com/feed/", "Nextplatform"},
		{"https://www.tomshardware.com/feeds/all", "Tomshardware"},
	}
	for _, tt := range tests {
		if got := SourceName(tt.in); got != tt.want {
			t.Errorf("SourceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFeedFetch(t *testing.T) {
	t.Parallel()
	pub := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC1123Z)
	body := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Example</title>
<item>
  <title>Chips &amp; dips</title>
  <link>https://example.com/chips</link>
  <description>&lt;p&gt;A &lt;b&gt;bold&lt;/b&gt; move&lt;/p&gt;</description>
  <author>jane@example.com (Jane)</author>
  <pubDate>%s</pubDate>
</item>
<item>
  <title>No date</title>
  <link>https://example.com/nodate</link>
  <description>still parsed</description>
</item>
</channel></rss>`, pub)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	feed := NewFeed(srv.URL + "/feed")
	articles, err := feed.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	a := articles[0]
	if a.Title != "Chips & dips" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Summary != "A bold move" {
		t.Errorf("summary = %q, want cleaned text", a.Summary)
	}
	if a.URL != "https://example.com/chips" {
		t.Errorf("url = %q", a.URL)
	}
	if a.PublishedAt.IsZero() {
		t.Errorf("published at not parsed")
	}
	if !articles[1].PublishedAt.IsZero() {
		t.Errorf("missing pubDate should stay zero, got %v", articles[1].PublishedAt)
	}
}
