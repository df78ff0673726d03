package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadInterests reads the interest-embedding set: a JSON object mapping an
// interest name to its embedding vector. The set is loaded once per run and
// treated as immutable. A missing set is a configuration error, reported
// before any scoring work starts.
func LoadInterests(ctx context.Context, blob Blob, key string) (map[string][]float64, error) {
	ok, err := blob.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checking interest embeddings: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("interest embedding set %s not found in storage", key)
	}
	data, err := blob.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading interest embeddings: %w", err)
	}
	var interests map[string][]float64
	if err := json.Unmarshal(data, &interests); err != nil {
		return nil, fmt.Errorf("parsing interest embeddings: %w", err)
	}
	if len(interests) == 0 {
		return nil, fmt.Errorf("interest embedding set %s is empty", key)
	}
	return interests, nil
}
