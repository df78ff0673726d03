package embedding

import (
	"context"
	"log"

	"github.com/davecollins/newsintel/provider"
)

// Embedding batches texts through the configured provider. One failed batch
// is skipped rather than failing the run; its texts simply stay unscored.
type Embedding struct {
	provider  provider.Provider
	batchSize int
}

func NewEmbedding(provider provider.Provider, batchSize int) *Embedding {
	if batchSize <= 0 {
		batchSize = 40
	}
	return &Embedding{provider: provider, batchSize: batchSize}
}

// EmbedMany embeds all texts in order. The result always has one entry per
// input; entries from failed batches are nil.
func (e Embedding) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.provider.CreateEmbedding(ctx, texts[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[embed] batch %d-%d failed: %v (skipping)", start, end, err)
			continue
		}
		copy(vecs[start:end], batch)
	}
	return vecs, nil
}
