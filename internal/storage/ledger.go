package storage

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/davecollins/newsintel/internal/helpers"
	"github.com/davecollins/newsintel/models"
)

// Ledger is the persisted set of article URLs already emailed, keyed by
// canonical URL. Absence from the ledger means "not yet sent". The ledger
// only ever grows.
type Ledger struct {
	blob Blob
	key  string
}

func NewLedger(blob Blob, key string) *Ledger {
	return &Ledger{blob: blob, key: key}
}

// Load returns the set of sent URL keys. A missing ledger object is an empty
// set. Stored lines are canonicalized on read so entries written before a
// canonicalization rule changed still match.
func (l *Ledger) Load(ctx context.Context) (map[string]struct{}, error) {
	data, err := l.blob.Get(ctx, l.key)
	if errors.Is(err, models.ErrNotFound) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	sent := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			sent[helpers.URLKey(line)] = struct{}{}
		}
	}
	return sent, nil
}

// Add unions urls into the ledger and writes it back. Callers must only do
// this after a successful delivery; a failed send leaves the ledger untouched
// so the same candidates are reconsidered next run.
func (l *Ledger) Add(ctx context.Context, urls []string) error {
	sent, err := l.Load(ctx)
	if err != nil {
		return err
	}
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			sent[helpers.URLKey(u)] = struct{}{}
		}
	}
	lines := make([]string, 0, len(sent))
	for u := range sent {
		lines = append(lines, u)
	}
	sort.Strings(lines)
	return l.blob.Put(ctx, l.key, []byte(strings.Join(lines, "\n")))
}
