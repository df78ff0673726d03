package helpers

import (
	"regexp"
	"strings"
)

var (
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	nonASCIIRe = regexp.MustCompile(`[^\x00-\x7F]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"&ndash;", "-",
	"&mdash;", "-",
	"&hellip;", "...",
)

// CleanText strips markup and non-ASCII noise from feed content. URLs pass
// through untouched so link fields keep their identity.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "www.") {
		return s
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = htmlEntities.Replace(s)
	s = nonASCIIRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
