package helpers

import "testing"

func TestCanonicalURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "defaults https and cleans path",
			in:   "Example.com/news/../tech/latest",
			want: "https://example.com/tech/latest",
		},
		{
			name: "removes default port and tracking params",
			in:   "http://news.example.com:80/article?id=123&utm_source=rss#section",
			want: "http://news.example.com/article?id=123",
		},
		{
			name: "sorts query parameters and preserves trailing slash",
			in:   "https://example.com/path/?b=2&a=1&fbclid=xyz",
			want: "https://example.com/path/?a=1&b=2",
		},
		{
			name: "handles schemeless url with double slash",
			in:   "//blog.example.com/post/42?utm_medium=email",
			want: "https://blog.example.com/post/42",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("CanonicalURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("CanonicalURL() got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := CanonicalURL(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestURLKey(t *testing.T) {
	t.Parallel()
	if got := URLKey("https://Example.com/a?utm_source=rss"); got != "https://example.com/a" {
		t.Errorf("URLKey() = %q, want canonical form", got)
	}
	// Unparseable input falls back to the raw string rather than dropping
	// the article.
	raw := "http://%zz"
	if got := URLKey(raw); got != raw {
		t.Errorf("URLKey(%q) = %q, want raw fallback", raw, got)
	}
}

func TestNormalizeSocialURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"https://twitter.com/someuser/status/123?s=20", "https://x.com/someuser/status/123"},
		{"https://x.com/someuser/status/123/", "https://x.com/someuser/status/123"},
		{"https://twitter.com/a/status/9", "https://x.com/a/status/9"},
	}
	for _, tt := range tests {
		if got := NormalizeSocialURL(tt.in); got != tt.want {
			t.Errorf("NormalizeSocialURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSocialAuthor(t *testing.T) {
	t.Parallel()
	if got := SocialAuthor("https://x.com/SomeUser/status/123"); got != "someuser" {
		t.Errorf("SocialAuthor() = %q, want %q", got, "someuser")
	}
	if got := SocialAuthor("https://x.com/someuser"); got != "" {
		t.Errorf("SocialAuthor() on profile link = %q, want empty", got)
	}
}
