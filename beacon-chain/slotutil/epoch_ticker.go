package slotutil

import (
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
)

// EpochTicker is a special ticker for the beacon chain that emits once per
// epoch, aligned to genesis, so a restart resumes mid-epoch correctly. The
// subnet manager does not use it: the slot scheduler detects epoch
// boundaries from the wall slot.
type EpochTicker struct {
	c    chan types.Epoch
	done chan struct{}
}

// C returns the ticker channel. Call Done afterwards to ensure the
// goroutine backing it exits cleanly.
func (e *EpochTicker) C() <-chan types.Epoch {
	return e.c
}

// Done should be called to clean up the ticker.
func (e *EpochTicker) Done() {
	go func() {
		e.done <- struct{}{}
	}()
}

// NewEpochTicker is the constructor for EpochTicker. secondsPerEpoch is
// SLOTS_PER_EPOCH * SECONDS_PER_SLOT.
func NewEpochTicker(genesisTime time.Time, secondsPerEpoch uint64) *EpochTicker {
	ticker := &EpochTicker{
		c:    make(chan types.Epoch),
		done: make(chan struct{}),
	}
	ticker.start(genesisTime, secondsPerEpoch, time.Since, time.Until, time.After)
	return ticker
}

// EpochSeconds is a convenience helper for callers that only have the
// current BeaconChainConfig at hand.
func EpochSeconds(cfg *params.BeaconChainConfig) uint64 {
	return cfg.SecondsPerSlot * uint64(cfg.SlotsPerEpoch)
}

func (e *EpochTicker) start(
	genesisTime time.Time,
	secondsPerEpoch uint64,
	since func(time.Time) time.Duration,
	until func(time.Time) time.Duration,
	after func(time.Duration) <-chan time.Time) {
	d := time.Duration(secondsPerEpoch) * time.Second

	go func() {
		sinceGenesis := since(genesisTime)

		var nextTickTime time.Time
		var epoch types.Epoch
		if sinceGenesis < 0 {
			nextTickTime = genesisTime
			epoch = 0
		} else {
			nextTick := sinceGenesis.Truncate(d) + d
			nextTickTime = genesisTime.Add(nextTick)
			epoch = types.Epoch(nextTick / d)
		}

		for {
			waitTime := until(nextTickTime)
			select {
			case <-after(waitTime):
				e.c <- epoch
				epoch++
				nextTickTime = nextTickTime.Add(d)
			case <-e.done:
				return
			}
		}
	}()
}
