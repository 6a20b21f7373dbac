// Package slotutil maps wall-clock time to protocol slots and epochs, and
// provides genesis-aligned slot and epoch tickers. The slot scheduler and
// second ticker in beacon-chain/sync run on their own timers, not on these
// tickers.
package slotutil

import (
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
)

// BeaconTime is a signed offset from genesis, in nanosecond precision. It is
// signed so that "time until slot N" can be computed and reported even for
// slots already in the past (a negative offset), without the caller having
// to special-case pre-genesis separately from "slot already passed".
type BeaconTime time.Duration

// Before reports whether b occurred strictly before other.
func (b BeaconTime) Before(other BeaconTime) bool {
	return b < other
}

// Sub returns the duration b - other.
func (b BeaconTime) Sub(other BeaconTime) time.Duration {
	return time.Duration(b - other)
}

// SaturatingWait returns the duration to wait for b to arrive, floored at
// zero if b is already in the past.
func (b BeaconTime) SaturatingWait() time.Duration {
	if b < 0 {
		return 0
	}
	return time.Duration(b)
}

// ToSlot converts b into a slot number. afterGenesis is false (and slot is
// GENESIS_SLOT) when b is still before genesis.
func (b BeaconTime) ToSlot() (afterGenesis bool, slot types.Slot) {
	if b < 0 {
		return false, params.BeaconConfig().GenesisSlot
	}
	perSlot := time.Duration(params.BeaconConfig().SecondsPerSlot) * time.Second
	return true, params.BeaconConfig().GenesisSlot + types.Slot(time.Duration(b)/perSlot)
}
