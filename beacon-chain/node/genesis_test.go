package node

import (
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
)

func TestWeakSubjectivityPeriod_ZeroValidators(t *testing.T) {
	wsp := weakSubjectivityPeriod(0)
	want := types.Epoch(256)
	if wsp != want {
		t.Errorf("weakSubjectivityPeriod(0) = %d, want %d", wsp, want)
	}
}

func TestWeakSubjectivityPeriod_SaturatesChurnLimit(t *testing.T) {
	// Above the saturation threshold (MinPerEpochChurnLimit * ChurnLimitQuotient)
	// Q is pinned to ChurnLimitQuotient regardless of how many more validators
	// are active.
	atThreshold := weakSubjectivityPeriod(4 * 65536)
	wellPast := weakSubjectivityPeriod(4 * 65536 * 10)
	if atThreshold != wellPast {
		t.Errorf("weakSubjectivityPeriod should saturate at the churn limit: got %d at threshold, %d well past it", atThreshold, wellPast)
	}
}

func TestWeakSubjectivityPeriod_BelowSaturationScalesDown(t *testing.T) {
	half := weakSubjectivityPeriod(4 * 65536 / 2)
	saturated := weakSubjectivityPeriod(4 * 65536)
	if half >= saturated {
		t.Errorf("weakSubjectivityPeriod below saturation should be smaller than the saturated value: half=%d saturated=%d", half, saturated)
	}
}

func TestIsWithinWeakSubjectivityPeriod(t *testing.T) {
	wsp := weakSubjectivityPeriod(0)
	slotsPerEpoch := types.Slot(32)
	windowSlots := types.Slot(wsp) * slotsPerEpoch

	tests := []struct {
		name           string
		currentSlot    types.Slot
		checkpointSlot types.Slot
		want           bool
	}{
		{
			name:           "checkpoint is current slot",
			currentSlot:    1000,
			checkpointSlot: 1000,
			want:           true,
		},
		{
			name:           "exactly at the window boundary",
			currentSlot:    windowSlots,
			checkpointSlot: 0,
			want:           true,
		},
		{
			name:           "one slot past the window boundary",
			currentSlot:    windowSlots + 1,
			checkpointSlot: 0,
			want:           false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isWithinWeakSubjectivityPeriod(tt.currentSlot, tt.checkpointSlot, 0)
			if got != tt.want {
				t.Errorf("isWithinWeakSubjectivityPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}
