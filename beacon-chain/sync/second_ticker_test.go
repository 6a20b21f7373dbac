package sync

import (
	"context"
	"testing"
	"time"
)

type fakeTickerSyncManager struct {
	inProgress bool
}

func (m *fakeTickerSyncManager) SyncQueueLen() uint64 { return 0 }
func (m *fakeTickerSyncManager) InProgress() bool     { return m.inProgress }

func TestSecondTicker_PollSkipsWhileForwardSyncInProgress(t *testing.T) {
	quarantine := NewQuarantine(32)
	quarantine.Add(rootFor(1), 100, rootFor(0xAA))

	fetcher := newFakeRequestFetcher()
	requests := NewRequestManager(fetcher)
	syncMgr := &fakeTickerSyncManager{inProgress: true}
	ticker := NewSecondTicker(quarantine, requests, syncMgr)

	ticker.poll(context.Background())

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if len(fetcher.fetched) != 0 {
		t.Errorf("expected poll to skip dispatching while the forward synchronizer is in progress, got %d fetches", len(fetcher.fetched))
	}
}

func TestSecondTicker_PollDispatchesMissingRoots(t *testing.T) {
	quarantine := NewQuarantine(32)
	parent := rootFor(0xAA)
	quarantine.Add(rootFor(1), 100, parent)

	fetcher := newFakeRequestFetcher()
	requests := NewRequestManager(fetcher)
	syncMgr := &fakeTickerSyncManager{inProgress: false}
	ticker := NewSecondTicker(quarantine, requests, syncMgr)

	ticker.poll(context.Background())

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if len(fetcher.fetched) != 1 || fetcher.fetched[0] != parent {
		t.Errorf("expected poll to dispatch the missing parent root, got %v", fetcher.fetched)
	}
}

func TestSecondTicker_StopUnblocksRun(t *testing.T) {
	quarantine := NewQuarantine(32)
	requests := NewRequestManager(newFakeRequestFetcher())
	ticker := NewSecondTicker(quarantine, requests, &fakeTickerSyncManager{})

	done := make(chan struct{})
	go func() {
		ticker.Run(context.Background())
		close(done)
	}()

	ticker.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
