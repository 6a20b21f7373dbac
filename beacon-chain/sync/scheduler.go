package sync

import (
	"context"
	"runtime"
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	bcparams "github.com/harbor-labs/beacon-chain/beacon-chain/params"
	"github.com/harbor-labs/beacon-chain/beacon-chain/slotutil"
)

var schedulerLog = logrus.WithField("prefix", "sync")

var (
	currentSlotGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_current_slot",
		Help: "Current wall-clock slot observed by the slot scheduler.",
	})
	finalizationDelayGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_finalization_delay_epochs",
		Help: "scheduledSlot.epoch - finalizedEpoch, as observed at slot end.",
	})
)

// SlotScheduler drives onSlotStart once per slot, with the catch-up and
// skip-ahead policies of spec §4.5. Exactly one pending slot-tick timer
// exists at any moment (spec §5's single-threaded event loop): Run owns the
// only goroutine that ever calls onSlotStart, so no two ticks interleave.
type SlotScheduler struct {
	clock      *slotutil.BeaconClock
	processor  Processor
	gate       *GossipGate
	subnets    *SubnetManager
	requestGC  bool

	lastSlot types.Slot
}

// NewSlotScheduler wires a scheduler to its collaborators. requestGC mirrors
// spec §4.5 step 9 ("optionally request a full GC cycle between slot
// frames"); it is a knob, not a requirement, since forcing a GC every slot
// can itself become the stall it's meant to guard against on a busy node.
func NewSlotScheduler(clock *slotutil.BeaconClock, processor Processor, gate *GossipGate, subnets *SubnetManager, requestGC bool) *SlotScheduler {
	return &SlotScheduler{
		clock:     clock,
		processor: processor,
		gate:      gate,
		subnets:   subnets,
		requestGC: requestGC,
		lastSlot:  bcparams.BeaconConfig().GenesisSlot,
	}
}

// Run starts the event loop and blocks until ctx is cancelled. startSlot is
// the slot lifecycle schedules the first tick for (spec §4.7 step 9).
func (s *SlotScheduler) Run(ctx context.Context, startSlot types.Slot) {
	scheduled := startSlot
	for {
		waitDuration := s.clock.FromNow(scheduled).SaturatingWait()
		timer := time.NewTimer(waitDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		next, err := s.onSlotStart(ctx, s.lastSlot, scheduled)
		if err != nil {
			schedulerLog.WithError(err).Error("slot tick failed")
		}
		scheduled = next
	}
}

// onSlotStart implements spec §4.5 steps 1-10, returning the slot the next
// tick should be armed for.
func (s *SlotScheduler) onSlotStart(ctx context.Context, lastSlot, scheduledSlot types.Slot) (types.Slot, error) {
	afterGenesis, wallSlot := s.clock.Now().ToSlot()

	// 2. Clock regression: pre-genesis or wallSlot < lastSlot.
	if !afterGenesis || wallSlot < lastSlot {
		schedulerLog.Warnf("Clock regression detected: wallSlot=%d lastSlot=%d; rearming", wallSlot, lastSlot)
		rearm := lastSlot
		if rearm < bcparams.BeaconConfig().GenesisSlot {
			rearm = bcparams.BeaconConfig().GenesisSlot
		}
		return rearm + 1, nil
	}

	// 3. Fall-behind: more than a full epoch behind.
	if wallSlot > lastSlot+bcparams.BeaconConfig().SlotsPerEpoch {
		schedulerLog.Warnf("Falling behind: wallSlot=%d lastSlot=%d, skipping slot body", wallSlot, lastSlot)
		s.lastSlot = wallSlot
		return wallSlot + 1, nil
	}

	// 4. Publish metrics.
	currentSlotGauge.Set(float64(wallSlot))
	finalizationDelayGauge.Set(float64(uint64(scheduledSlot/bcparams.BeaconConfig().SlotsPerEpoch) - uint64(s.processor.FinalizedEpoch())))

	// 5. Recompute fork-choice head.
	if _, err := s.processor.UpdateHead(ctx, wallSlot); err != nil {
		schedulerLog.WithError(err).Error("Could not update head")
	}

	// 6. Validator duties; must return before step 7.
	if err := s.processor.HandleValidatorDuties(ctx, lastSlot, wallSlot); err != nil {
		schedulerLog.WithError(err).Error("Could not handle validator duties")
	}

	// 7. Consult the gossip gate.
	if err := s.gate.Evaluate(ctx, wallSlot); err != nil {
		schedulerLog.WithError(err).Warn("Could not evaluate gossip gate")
	}

	// 8. Epoch boundary and gossip enabled: rotate subnets.
	if wallSlot%bcparams.BeaconConfig().SlotsPerEpoch == 0 && s.gate.Enabled() {
		epoch := types.Epoch(wallSlot / bcparams.BeaconConfig().SlotsPerEpoch)
		if err := s.subnets.Cycle(ctx, epoch); err != nil {
			schedulerLog.WithError(err).Warn("Could not cycle attestation subnets")
		}
	}

	// 9. Optional scratch-memory hygiene between slot frames.
	if s.requestGC {
		runtime.GC()
	}

	s.lastSlot = wallSlot
	// 10. Re-arm for wallSlot + 1.
	return wallSlot + 1, nil
}
