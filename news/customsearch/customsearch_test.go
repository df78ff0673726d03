package customsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchHandleFiltersAndNormalizes(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cx"); got != "engine-1" {
			t.Errorf("cx = %q", got)
		}
		resp := map[string]any{
			"items": []map[string]string{
				{"title": "Ada Lovelace on X: Chips are back 2 hours ago", "link": "https://twitter.com/adal/status/100?s=20"},
				// Same post through the other site: query, must dedup.
				{"title": "Ada Lovelace on X: Chips are back", "link": "https://x.com/adal/status/100"},
				// Profile link, not a status.
				{"title": "Ada Lovelace (@adal)", "link": "https://x.com/adal"},
				// Retweet surfaced under another author.
				{"title": "Someone else", "link": "https://x.com/other/status/200"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := Client{APIKey: "k", EngineID: "engine-1", Endpoint: srv.URL}
	posts, err := c.SearchHandle(context.Background(), Handle{Name: "Ada", Handle: "@AdaL"})
	if err != nil {
		t.Fatalf("SearchHandle: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1: %+v", len(posts), posts)
	}
	p := posts[0]
	if p.URL != "https://x.com/adal/status/100" {
		t.Errorf("url = %q, want normalized x.com url", p.URL)
	}
	if p.Title != "Chips are back" {
		t.Errorf("title = %q, want cleaned snippet", p.Title)
	}
	if p.Author != "@adal" {
		t.Errorf("author = %q", p.Author)
	}
	if p.Source != "Ada" {
		t.Errorf("source = %q", p.Source)
	}
}

func TestCleanSnippet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe on X: big news today", "big news today"},
		{"Jane Doe · launch day Mar 4, 2025", "launch day"},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := cleanSnippet(tt.in); got != tt.want {
			t.Errorf("cleanSnippet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
