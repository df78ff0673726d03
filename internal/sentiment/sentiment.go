package sentiment

import (
	"strings"

	"github.com/davecollins/newsintel/models"
)

// Label is the qualitative reading of a score.
type Label string

const (
	Bullish Label = "bullish"
	Bearish Label = "bearish"
	Neutral Label = "neutral"
)

var bullishKeywords = []string{
	"surge", "rally", "gain", "beat", "record", "growth", "breakthrough",
	"upgrade", "expansion", "profit", "strong", "boost", "soar", "jump",
	"outperform", "milestone", "momentum", "raise", "accelerate",
}

var bearishKeywords = []string{
	"plunge", "fall", "drop", "miss", "loss", "decline", "downgrade",
	"layoff", "cut", "weak", "slump", "crash", "warning", "recall",
	"probe", "lawsuit", "shortage", "delay", "halt", "ban",
}

// Result is the sentiment reading for one article.
type Result struct {
	Score        float64 // -1..1, source-weighted
	Label        Label
	BullishHits  int
	BearishHits  int
	SourceWeight float64
}

// Analyzer scores article text against the keyword lists, weighting the
// result by source credibility.
type Analyzer struct {
	weights map[string]float64
}

func NewAnalyzer(sourceWeights map[string]float64) *Analyzer {
	return &Analyzer{weights: sourceWeights}
}

// Analyze reads the sentiment of one article from its title and summary.
func (a *Analyzer) Analyze(article models.Article) Result {
	text := strings.ToLower(article.Title + " " + article.Summary)

	bullish := countHits(text, bullishKeywords)
	bearish := countHits(text, bearishKeywords)

	weight := 1.0
	if w, ok := a.weights[article.Source]; ok {
		weight = w
	}

	var score float64
	if total := bullish + bearish; total > 0 {
		score = float64(bullish-bearish) / float64(total) * weight
	}

	return Result{
		Score:        score,
		Label:        labelFor(score),
		BullishHits:  bullish,
		BearishHits:  bearish,
		SourceWeight: weight,
	}
}

// Summary aggregates sentiment across a digest's articles.
type Summary struct {
	Bullish int
	Bearish int
	Neutral int
	Average float64
}

// Summarize computes the digest-level sentiment summary.
func (a *Analyzer) Summarize(articles []models.Article) Summary {
	var s Summary
	if len(articles) == 0 {
		return s
	}
	var total float64
	for _, article := range articles {
		r := a.Analyze(article)
		total += r.Score
		switch r.Label {
		case Bullish:
			s.Bullish++
		case Bearish:
			s.Bearish++
		default:
			s.Neutral++
		}
	}
	s.Average = total / float64(len(articles))
	return s
}

func countHits(text string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		hits += strings.Count(text, kw)
	}
	return hits
}

func labelFor(score float64) Label {
	switch {
	case score > 0.15:
		return Bullish
	case score < -0.15:
		return Bearish
	default:
		return Neutral
	}
}
