package sync

import (
	"context"
	"testing"
	"time"

	types "github.com/prysmaticlabs/eth2-types"

	"github.com/harbor-labs/beacon-chain/beacon-chain/slotutil"
)

type fakeSchedulerProcessor struct {
	updateHeadCalls int
	dutiesCalls     int
	finalizedEpoch  types.Epoch
}

func (p *fakeSchedulerProcessor) UpdateHead(ctx context.Context, wallSlot types.Slot) (types.Slot, error) {
	p.updateHeadCalls++
	return wallSlot, nil
}

func (p *fakeSchedulerProcessor) HandleValidatorDuties(ctx context.Context, lastSlot, wallSlot types.Slot) error {
	p.dutiesCalls++
	return nil
}

func (p *fakeSchedulerProcessor) FinalizedEpoch() types.Epoch {
	return p.finalizedEpoch
}

func (p *fakeSchedulerProcessor) GenesisTime() time.Time {
	return time.Time{}
}

type fakeSchedulerSyncManager struct {
	queueLen uint64
}

func (m *fakeSchedulerSyncManager) SyncQueueLen() uint64 { return m.queueLen }
func (m *fakeSchedulerSyncManager) InProgress() bool     { return false }

type fakeSchedulerPubsub struct {
	subscribed []string
}

func (p *fakeSchedulerPubsub) Subscribe(ctx context.Context, topic string, validator TopicValidator) (Subscription, error) {
	p.subscribed = append(p.subscribed, topic)
	return &noopTestSubscription{topic: topic}, nil
}

func (p *fakeSchedulerPubsub) Unsubscribe(topic string) error { return nil }

type noopTestSubscription struct {
	topic string
}

func (s *noopTestSubscription) Cancel()       {}
func (s *noopTestSubscription) Topic() string { return s.topic }

func TestOnSlotStart_PreGenesisClockRegression(t *testing.T) {
	clock := slotutil.NewBeaconClock(time.Now().Add(1 * time.Hour))
	processor := &fakeSchedulerProcessor{}
	gate := NewGossipGate(&fakeSchedulerPubsub{}, &fakeSchedulerSyncManager{}, nil, NewMessageRouter())
	s := NewSlotScheduler(clock, processor, gate, nil, false)

	next, err := s.onSlotStart(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("onSlotStart returned error: %v", err)
	}
	if next != 6 {
		t.Errorf("onSlotStart() next = %d, want 6", next)
	}
	if processor.updateHeadCalls != 0 {
		t.Errorf("expected no fork-choice update while pre-genesis, got %d calls", processor.updateHeadCalls)
	}
}

func TestOnSlotStart_WallSlotBehindLastSlotRegression(t *testing.T) {
	clock := slotutil.NewBeaconClock(time.Now().Add(-1 * time.Second))
	processor := &fakeSchedulerProcessor{}
	gate := NewGossipGate(&fakeSchedulerPubsub{}, &fakeSchedulerSyncManager{}, nil, NewMessageRouter())
	s := NewSlotScheduler(clock, processor, gate, nil, false)

	next, err := s.onSlotStart(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("onSlotStart returned error: %v", err)
	}
	if next != 6 {
		t.Errorf("onSlotStart() next = %d, want 6 (rearm at lastSlot+1)", next)
	}
}

func TestOnSlotStart_FallsBehindMoreThanAnEpoch(t *testing.T) {
	clock := slotutil.NewBeaconClock(time.Now().Add(-1200 * time.Second))
	processor := &fakeSchedulerProcessor{}
	gate := NewGossipGate(&fakeSchedulerPubsub{}, &fakeSchedulerSyncManager{}, nil, NewMessageRouter())
	s := NewSlotScheduler(clock, processor, gate, nil, false)

	wallSlot := clock.SlotOrZero()
	next, err := s.onSlotStart(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("onSlotStart returned error: %v", err)
	}
	if next != wallSlot+1 {
		t.Errorf("onSlotStart() next = %d, want %d (wallSlot+1, slot body skipped)", next, wallSlot+1)
	}
	if s.lastSlot != wallSlot {
		t.Errorf("lastSlot = %d, want %d to jump forward even though the slot body was skipped", s.lastSlot, wallSlot)
	}
	if processor.updateHeadCalls != 0 {
		t.Errorf("expected the slot body to be skipped while falling behind, got %d UpdateHead calls", processor.updateHeadCalls)
	}
}

func TestOnSlotStart_HappyPathRunsSlotBody(t *testing.T) {
	clock := slotutil.NewBeaconClock(time.Now().Add(-1200 * time.Second))
	processor := &fakeSchedulerProcessor{}
	pubsub := &fakeSchedulerPubsub{}
	gate := NewGossipGate(pubsub, &fakeSchedulerSyncManager{}, nil, NewMessageRouter())
	s := NewSlotScheduler(clock, processor, gate, nil, false)

	wallSlot := clock.SlotOrZero()
	lastSlot := wallSlot - 1

	next, err := s.onSlotStart(context.Background(), lastSlot, lastSlot)
	if err != nil {
		t.Fatalf("onSlotStart returned error: %v", err)
	}
	if next != wallSlot+1 {
		t.Errorf("onSlotStart() next = %d, want %d", next, wallSlot+1)
	}
	if processor.updateHeadCalls != 1 {
		t.Errorf("expected exactly one UpdateHead call, got %d", processor.updateHeadCalls)
	}
	if processor.dutiesCalls != 1 {
		t.Errorf("expected exactly one HandleValidatorDuties call, got %d", processor.dutiesCalls)
	}
	if s.lastSlot != wallSlot {
		t.Errorf("lastSlot = %d, want %d", s.lastSlot, wallSlot)
	}
	if !gate.Enabled() {
		t.Error("expected the gossip gate to have enabled itself when the sync queue is empty")
	}
}
