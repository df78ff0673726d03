package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Blob is the narrow object-storage surface the pipeline stages share state
// through. Each Get/Put is atomic per key; there is no multi-key consistency.
type Blob interface {
	// Get returns the object's content, or models.ErrNotFound when the key
	// does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

const (
	putMaxRetries = 5
	putBaseDelay  = time.Second
)

// putWithRetry uploads with exponential backoff. Collection results are only
// as durable as this write, so it is the one place the pipeline retries.
func putWithRetry(ctx context.Context, b Blob, key string, data []byte) error {
	var err error
	for attempt := 0; attempt < putMaxRetries; attempt++ {
		if err = b.Put(ctx, key, data); err == nil {
			return nil
		}
		delay := putBaseDelay * (1 << attempt)
		log.Printf("[storage] put %s attempt %d failed: %v (retrying in %s)", key, attempt+1, err, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("put %s failed after %d attempts: %w", key, putMaxRetries, err)
}
