package helpers

import (
	"strings"
	"time"
)

// timestampLayouts covers the formats seen across feeds: the pipeline's own
// CSV format first, then RFC variants and the loose forms some sources emit.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04",
	"1/2/2006 3:04:05 PM",
}

// ParseTimestamp parses a feed timestamp against the known layouts, returning
// a zero time when nothing matches. Parsed times are normalised to UTC;
// layouts without zone information are assumed UTC.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// FormatTimestamp renders t in the pipeline's CSV timestamp format.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
