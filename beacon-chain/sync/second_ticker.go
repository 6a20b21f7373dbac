package sync

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/harbor-labs/beacon-chain/shared/roughtime"
)

var ticksDelay = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "second_ticker_delay_seconds",
	Help: "Observed sleep-vs-wall-clock delta of the once-per-second housekeeping loop; nonzero values indicate event-loop starvation.",
})

// SecondTicker runs an independent once-per-second loop that polls
// Quarantine for missing ancestor roots and dispatches them to the
// RequestManager, but only while the forward synchronizer is not itself
// making range-sync progress (spec §4.6): racing the two would mean the
// backfill loop and the forward synchronizer request the same blocks twice.
type SecondTicker struct {
	quarantine  *Quarantine
	requests    *RequestManager
	syncManager SyncManager
	interval    time.Duration
	stop        chan struct{}
	stopped     chan struct{}
}

// NewSecondTicker wires the quarantine/request-manager backfill loop to the
// given sync manager.
func NewSecondTicker(quarantine *Quarantine, requests *RequestManager, syncManager SyncManager) *SecondTicker {
	return &SecondTicker{
		quarantine:  quarantine,
		requests:    requests,
		syncManager: syncManager,
		interval:    time.Second,
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called. Call it in its own
// goroutine; it is independent of the SlotScheduler's event loop.
func (t *SecondTicker) Run(ctx context.Context) {
	defer close(t.stopped)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case tick := <-ticker.C:
			observed := roughtime.Since(tick)
			ticksDelay.Set(observed.Seconds())
			t.poll(ctx)
		}
	}
}

// Stop signals Run to exit and waits for it to do so.
func (t *SecondTicker) Stop() {
	close(t.stop)
	<-t.stopped
}

func (t *SecondTicker) poll(ctx context.Context) {
	if t.syncManager.InProgress() {
		return
	}
	missing := t.quarantine.CheckMissing(roughtime.Now())
	if len(missing) == 0 {
		return
	}
	if err := t.requests.FetchAncestorBlocks(ctx, missing); err != nil {
		quarantineLog.WithError(err).Warn("Could not fetch quarantined ancestor blocks")
	}
}
