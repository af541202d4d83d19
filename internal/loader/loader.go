// Package loader provides request-scoped batching and deduplication of
// fetch-by-owner reads. A Loader is created per request and passed explicitly
// into read paths; writers call Invalidate after mutating an owner's records.
// It only promises read-after-commit visibility for the same owner; the
// ordering engine stays correct when read through a stale batch.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/searchrail/searchrail/internal/model"
)

// DefaultWindow is how long a Loader collects keys before issuing one batch
// query for all of them.
const DefaultWindow = 2 * time.Millisecond

// Reader is the batch read the loader groups concurrent calls onto.
type Reader interface {
	ListByOwners(ctx context.Context, ownerIDs []string) (map[string][]*model.SavedSearch, error)
}

type result struct {
	searches []*model.SavedSearch
	err      error
}

// Loader batches, deduplicates and memoizes ListByOwner lookups for the
// lifetime of one request.
type Loader struct {
	reader Reader
	window time.Duration

	mu      sync.Mutex
	cache   map[string]result
	pending map[string][]chan result
	keys    []string
	flushCh chan struct{}
}

func New(r Reader) *Loader {
	return &Loader{
		reader:  r,
		window:  DefaultWindow,
		cache:   make(map[string]result),
		pending: make(map[string][]chan result),
	}
}

// Load returns the owner's saved searches, coalescing concurrent calls for
// the same request into a single batch query. Results are memoized until
// Invalidate is called for that owner.
func (l *Loader) Load(ctx context.Context, ownerID string) ([]*model.SavedSearch, error) {
	l.mu.Lock()
	if res, ok := l.cache[ownerID]; ok {
		l.mu.Unlock()
		return res.searches, res.err
	}

	ch := make(chan result, 1)
	waiters, inFlight := l.pending[ownerID]
	l.pending[ownerID] = append(waiters, ch)
	if !inFlight {
		l.keys = append(l.keys, ownerID)
	}
	if l.flushCh == nil {
		l.flushCh = make(chan struct{})
		go l.flushAfter(ctx, l.flushCh)
	}
	l.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.searches, res.err
	}
}

// Invalidate drops the cached result for an owner. Callers invoke it after
// any write so the next Load observes committed state.
func (l *Loader) Invalidate(ownerID string) {
	l.mu.Lock()
	delete(l.cache, ownerID)
	l.mu.Unlock()
}

func (l *Loader) flushAfter(ctx context.Context, done chan struct{}) {
	t := time.NewTimer(l.window)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	close(done)

	l.mu.Lock()
	keys := l.keys
	pending := l.pending
	l.keys = nil
	l.pending = make(map[string][]chan result)
	l.flushCh = nil
	l.mu.Unlock()

	if len(keys) == 0 {
		return
	}

	byOwner, err := l.reader.ListByOwners(ctx, keys)

	l.mu.Lock()
	for _, key := range keys {
		res := result{err: err}
		if err == nil {
			res.searches = byOwner[key]
			// errors are delivered but not memoized; successes are
			l.cache[key] = res
		}
		for _, ch := range pending[key] {
			ch <- res
		}
	}
	l.mu.Unlock()
}
