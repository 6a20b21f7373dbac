package sync

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

type fakeRequestFetcher struct {
	mu      sync.Mutex
	fetched []BlockRoot
	failFor map[BlockRoot]bool
}

func newFakeRequestFetcher() *fakeRequestFetcher {
	return &fakeRequestFetcher{failFor: map[BlockRoot]bool{}}
}

func (f *fakeRequestFetcher) FetchAncestorBlocks(ctx context.Context, roots []BlockRoot) error {
	f.mu.Lock()
	f.fetched = append(f.fetched, roots...)
	fail := false
	for _, r := range roots {
		if f.failFor[r] {
			fail = true
		}
	}
	f.mu.Unlock()
	if fail {
		return errors.New("simulated peer failure")
	}
	return nil
}

func TestRequestManager_FetchesEachRootOnce(t *testing.T) {
	fetcher := newFakeRequestFetcher()
	mgr := NewRequestManager(fetcher)

	roots := []BlockRoot{rootFor(1), rootFor(2), rootFor(3)}
	if err := mgr.FetchAncestorBlocks(context.Background(), roots); err != nil {
		t.Fatalf("FetchAncestorBlocks returned error: %v", err)
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if len(fetcher.fetched) != 3 {
		t.Errorf("expected 3 fetched roots, got %d", len(fetcher.fetched))
	}
}

func TestRequestManager_ClearsInflightAfterCompletion(t *testing.T) {
	fetcher := newFakeRequestFetcher()
	mgr := NewRequestManager(fetcher)

	root := rootFor(1)
	if err := mgr.FetchAncestorBlocks(context.Background(), []BlockRoot{root}); err != nil {
		t.Fatalf("first FetchAncestorBlocks returned error: %v", err)
	}
	if err := mgr.FetchAncestorBlocks(context.Background(), []BlockRoot{root}); err != nil {
		t.Fatalf("second FetchAncestorBlocks returned error: %v", err)
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if len(fetcher.fetched) != 2 {
		t.Errorf("expected the root to be fetched again once the first request cleared its inflight marker, got %d fetches", len(fetcher.fetched))
	}
}

func TestRequestManager_OneFailurePropagatesButDoesNotBlockOthers(t *testing.T) {
	fetcher := newFakeRequestFetcher()
	bad := rootFor(1)
	good := rootFor(2)
	fetcher.failFor[bad] = true
	mgr := NewRequestManager(fetcher)

	err := mgr.FetchAncestorBlocks(context.Background(), []BlockRoot{bad, good})
	if err == nil {
		t.Fatal("expected an error to propagate when one root's fetch fails")
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if len(fetcher.fetched) != 2 {
		t.Errorf("expected both roots to have been attempted despite one failing, got %d", len(fetcher.fetched))
	}
}
