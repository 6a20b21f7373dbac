package slotutil

import (
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
	"github.com/harbor-labs/beacon-chain/shared/roughtime"
)

// BeaconClock maps wall-time to protocol slots. It is constructed once, from
// the reference BeaconState's genesis_time, and shared by pointer (it is
// immutable after construction) with every component that needs "what slot
// is it". It never fails and never blocks: a caller wanting monotonic-clock
// regression detection does that itself by comparing consecutive Now() calls
// (see beacon-chain/sync.SlotScheduler).
type BeaconClock struct {
	genesisTime time.Time
}

// NewBeaconClock constructs a clock anchored to genesisTime.
func NewBeaconClock(genesisTime time.Time) *BeaconClock {
	return &BeaconClock{genesisTime: genesisTime}
}

// GenesisTime returns the time this clock is anchored to.
func (c *BeaconClock) GenesisTime() time.Time {
	return c.genesisTime
}

// Now returns the current BeaconTime, i.e. the signed offset of roughtime.Now
// from genesis.
func (c *BeaconClock) Now() BeaconTime {
	return BeaconTime(roughtime.Since(c.genesisTime))
}

// FromNow returns the signed BeaconTime offset of the start of slot, which
// may be negative if slot has already elapsed.
func (c *BeaconClock) FromNow(slot types.Slot) BeaconTime {
	perSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	slotStart := BeaconTime(time.Duration(slot) * perSlot)
	return slotStart - c.Now()
}

// SlotOrZero returns the current slot, or GENESIS_SLOT if still pre-genesis.
func (c *BeaconClock) SlotOrZero() types.Slot {
	afterGenesis, slot := c.Now().ToSlot()
	if !afterGenesis {
		return params.BeaconConfig().GenesisSlot
	}
	return slot
}
