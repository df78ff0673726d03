package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/internal/sentiment"
	"github.com/davecollins/newsintel/models"
)

// Options control which scored articles make it into a digest.
type Options struct {
	Threshold       float64
	Window          time.Duration
	WindowOverrides map[string]time.Duration

	// Now is overridable for tests; zero means time.Now.
	Now func() time.Time
}

// Filter selects the articles to deliver: scored at or above the threshold,
// published within the recency window for their source, and not already in
// the sent ledger. Results are ordered by CSS descending; ties break on URL
// so the digest is stable across runs.
func Filter(articles []models.Article, sent map[string]struct{}, opts Options) []models.Article {
	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}

	var selected []models.Article
	for _, a := range articles {
		if !a.Scored || a.CSS < opts.Threshold {
			continue
		}
		if _, already := sent[helpers.URLKey(a.URL)]; already {
			continue
		}
		window := opts.Window
		if override, ok := opts.WindowOverrides[a.Source]; ok {
			window = override
		}
		if a.PublishedAt.IsZero() || now.Sub(a.PublishedAt) > window {
			continue
		}
		selected = append(selected, a)
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].CSS != selected[j].CSS {
			return selected[i].CSS > selected[j].CSS
		}
		return selected[i].URL < selected[j].URL
	})
	return selected
}

// URLs returns the ledger entries for a delivered digest.
func URLs(articles []models.Article) []string {
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL)
	}
	return urls
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body>
<h2>News Digest - {{.Date}}</h2>
<p>{{.Count}} relevant article{{if ne .Count 1}}s{{end}} since the last digest.</p>
{{if .Sentiment}}<p>Sentiment: {{.Sentiment.Bullish}} bullish, {{.Sentiment.Bearish}} bearish, {{.Sentiment.Neutral}} neutral (avg {{printf "%.2f" .Sentiment.Average}})</p>{{end}}
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Score</th><th>Article</th><th>Summary</th><th>Published</th></tr>
{{range .Articles}}<tr>
<td>{{printf "%.3f" .CSS}}</td>
<td>{{.Source}}: <a href="{{.URL}}">{{.Title}}</a></td>
<td>{{.Summary}}</td>
<td>{{.Date}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type templateArticle struct {
	CSS     float64
	Source  string
	Title   string
	URL     string
	Summary string
	Date    string
}

type templateData struct {
	Date      string
	Count     int
	Sentiment *sentiment.Summary
	Articles  []templateArticle
}

// Render produces the HTML digest body. A nil sentiment summary omits the
// sentiment line.
func Render(articles []models.Article, summary *sentiment.Summary, now time.Time) (string, error) {
	data := templateData{
		Date:      now.Format("2006-01-02"),
		Count:     len(articles),
		Sentiment: summary,
	}
	for _, a := range articles {
		date := ""
		if !a.PublishedAt.IsZero() {
			date = a.PublishedAt.UTC().Format("2006-01-02 15:04")
		}
		data.Articles = append(data.Articles, templateArticle{
			CSS:     a.CSS,
			Source:  a.Source,
			Title:   a.Title,
			URL:     a.URL,
			Summary: a.Summary,
			Date:    date,
		})
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return buf.String(), nil
}

// Subject is the email subject line for a digest.
func Subject(count int, now time.Time) string {
	return fmt.Sprintf("News Digest %s (%d articles)", now.Format("2006-01-02"), count)
}
