package sync

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RequestManager issues peer-parallel by-root block requests on behalf of
// Quarantine and hands completions to the processor's block queue. It never
// writes to the DAG directly (spec §4.2).
type RequestManager struct {
	fetcher   BlockFetcher
	mu        sync.Mutex
	inflight  map[BlockRoot]bool
}

// NewRequestManager constructs a RequestManager backed by the given
// external peer-request transport.
func NewRequestManager(fetcher BlockFetcher) *RequestManager {
	return &RequestManager{
		fetcher:  fetcher,
		inflight: make(map[BlockRoot]bool),
	}
}

// FetchAncestorBlocks requests every root not already in flight, in
// parallel, waiting for all requests to either complete or fail before
// returning. Every root is attempted even when one fails; the first failure
// is returned, wrapped, once all requests have finished (the context handed
// to the other requests is cancelled at that first failure). A failed root
// stays quarantined until a later SecondTicker pass requests it again.
func (r *RequestManager) FetchAncestorBlocks(ctx context.Context, roots []BlockRoot) error {
	r.mu.Lock()
	toFetch := make([]BlockRoot, 0, len(roots))
	for _, root := range roots {
		if r.inflight[root] {
			continue
		}
		r.inflight[root] = true
		toFetch = append(toFetch, root)
	}
	r.mu.Unlock()

	if len(toFetch) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, root := range toFetch {
		root := root
		g.Go(func() error {
			defer r.clearInflight(root)
			return r.fetcher.FetchAncestorBlocks(gctx, []BlockRoot{root})
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "could not fetch ancestor blocks")
	}
	return nil
}

func (r *RequestManager) clearInflight(root BlockRoot) {
	r.mu.Lock()
	delete(r.inflight, root)
	r.mu.Unlock()
}
