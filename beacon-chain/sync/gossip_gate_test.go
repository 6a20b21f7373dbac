package sync

import (
	"context"
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
)

type fakeGateENRUpdater struct{}

func (fakeGateENRUpdater) SetAttSubnets(bits bitfield.Bitvector64) {}
func (fakeGateENRUpdater) SetSyncSubnets(bits bitfield.Bitvector4) {}

type fakeGateSyncManager struct {
	queueLen uint64
}

func (m *fakeGateSyncManager) SyncQueueLen() uint64 { return m.queueLen }
func (m *fakeGateSyncManager) InProgress() bool     { return false }

type fakeGatePubsub struct {
	subscribed   map[string]bool
	unsubscribed map[string]bool
}

func newFakeGatePubsub() *fakeGatePubsub {
	return &fakeGatePubsub{subscribed: map[string]bool{}, unsubscribed: map[string]bool{}}
}

func (p *fakeGatePubsub) Subscribe(ctx context.Context, topic string, validator TopicValidator) (Subscription, error) {
	p.subscribed[topic] = true
	return &noopTestSubscription{topic: topic}, nil
}

func (p *fakeGatePubsub) Unsubscribe(topic string) error {
	p.unsubscribed[topic] = true
	return nil
}

func newTestSubnetManager() *SubnetManager {
	metadata := p2p.NewMetadata(fakeGateENRUpdater{})
	return NewSubnetManager(newFakeGatePubsub(), NewMessageRouter(), metadata, &fakeGateValidatorPool{}, fakeGateAssigner{})
}

type fakeGateValidatorPool struct{}

func (fakeGateValidatorPool) AttachedValidatorIndices() []uint64 { return nil }

type fakeGateAssigner struct{}

func (fakeGateAssigner) AssignSubnets(epoch types.Epoch, validatorIndices []uint64) []uint64 {
	return nil
}

func TestGossipGate_EnablesWhenQueueBelowThreshold(t *testing.T) {
	pubsub := newFakeGatePubsub()
	syncMgr := &fakeGateSyncManager{queueLen: 10}
	subnets := newTestSubnetManager()
	gate := NewGossipGate(pubsub, syncMgr, subnets, NewMessageRouter())

	if err := gate.Evaluate(context.Background(), 100); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !gate.Enabled() {
		t.Error("expected the gate to enable when queue length is below SubscribeThresholdSlots")
	}
	if !pubsub.subscribed["beacon_block"] {
		t.Error("expected the core topics to have been subscribed")
	}
}

func TestGossipGate_StaysEnabledAtDisableBoundary(t *testing.T) {
	// SubscribeThresholdSlots(64) + Hysteresis(16) = 80: the disable
	// condition requires queueLen to be strictly greater than this bound.
	pubsub := newFakeGatePubsub()
	syncMgr := &fakeGateSyncManager{queueLen: 80}
	subnets := newTestSubnetManager()
	gate := NewGossipGate(pubsub, syncMgr, subnets, NewMessageRouter())
	gate.enabled = true

	if err := gate.Evaluate(context.Background(), 100); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !gate.Enabled() {
		t.Error("expected the gate to remain enabled exactly at the disable boundary (queueLen == 80)")
	}
}

func TestGossipGate_DisablesOnePastBoundary(t *testing.T) {
	pubsub := newFakeGatePubsub()
	syncMgr := &fakeGateSyncManager{queueLen: 81}
	subnets := newTestSubnetManager()
	gate := NewGossipGate(pubsub, syncMgr, subnets, NewMessageRouter())
	gate.enabled = true

	if err := gate.Evaluate(context.Background(), 100); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if gate.Enabled() {
		t.Error("expected the gate to disable one slot past the hysteresis bound")
	}
}

func TestGossipGate_DoesNotDisableWhenQueueExceedsCurrentSlot(t *testing.T) {
	// The upper guard (queueLen < 2*currentSlot) keeps a spurious, oversized
	// queue length (as reported after a sync-queue underflow) from disabling
	// gossip.
	pubsub := newFakeGatePubsub()
	syncMgr := &fakeGateSyncManager{queueLen: 500}
	subnets := newTestSubnetManager()
	gate := NewGossipGate(pubsub, syncMgr, subnets, NewMessageRouter())
	gate.enabled = true

	if err := gate.Evaluate(context.Background(), 100); err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !gate.Enabled() {
		t.Error("expected the gate to remain enabled when queueLen exceeds 2*currentSlot")
	}
}
