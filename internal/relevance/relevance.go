package relevance

import (
	"math"
	"sort"
)

// Scorer derives the CSS score for an article embedding: the maximum cosine
// similarity against the interest set, optionally modulated by the source's
// credibility weight.
type Scorer struct {
	interests [][]float64
	names     []string

	weights        map[string]float64
	useCredibility bool
}

// DefaultSourceWeight is assumed for sources without a configured weight.
const DefaultSourceWeight = 1.0

func NewScorer(interests map[string][]float64, weights map[string]float64, useCredibility bool) *Scorer {
	names := make([]string, 0, len(interests))
	for name := range interests {
		names = append(names, name)
	}
	sort.Strings(names)

	vecs := make([][]float64, len(names))
	for i, name := range names {
		vecs[i] = interests[name]
	}
	return &Scorer{
		interests:      vecs,
		names:          names,
		weights:        weights,
		useCredibility: useCredibility,
	}
}

// Score returns the CSS for one article embedding and the name of the
// best-matching interest. A nil or zero embedding scores 0.
func (s *Scorer) Score(embedding []float64, source string) (float64, string) {
	if len(embedding) == 0 {
		return 0, ""
	}
	best := math.Inf(-1)
	bestName := ""
	for i, interest := range s.interests {
		if sim, ok := Cosine(embedding, interest); ok && sim > best {
			best = sim
			bestName = s.names[i]
		}
	}
	if math.IsInf(best, -1) {
		return 0, ""
	}
	if s.useCredibility {
		best *= s.SourceWeight(source)
	}
	return best, bestName
}

// SourceWeight returns the credibility weight for a source.
func (s *Scorer) SourceWeight(source string) float64 {
	if w, ok := s.weights[source]; ok {
		return w
	}
	return DefaultSourceWeight
}

// Cosine computes cosine similarity between two vectors. ok is false when
// the vectors differ in length or either has zero magnitude.
func Cosine(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
