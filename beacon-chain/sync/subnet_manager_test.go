package sync

import (
	"context"
	"testing"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
)

type fakeSubnetPubsub struct {
	subscribed   map[string]bool
	unsubscribed map[string]bool
}

func newFakeSubnetPubsub() *fakeSubnetPubsub {
	return &fakeSubnetPubsub{subscribed: map[string]bool{}, unsubscribed: map[string]bool{}}
}

func (p *fakeSubnetPubsub) Subscribe(ctx context.Context, topic string, validator TopicValidator) (Subscription, error) {
	p.subscribed[topic] = true
	return &noopTestSubscription{topic: topic}, nil
}

func (p *fakeSubnetPubsub) Unsubscribe(topic string) error {
	p.unsubscribed[topic] = true
	return nil
}

type fakeSubnetENRUpdater struct{}

func (fakeSubnetENRUpdater) SetAttSubnets(bits bitfield.Bitvector64) {}
func (fakeSubnetENRUpdater) SetSyncSubnets(bits bitfield.Bitvector4) {}

type fakeSubnetValidatorPool struct {
	indices []uint64
}

func (p *fakeSubnetValidatorPool) AttachedValidatorIndices() []uint64 { return p.indices }

// fakeSubnetAssigner assigns each validator index to itself modulo a fixed
// small subnet count, so tests can predict the assignment deterministically.
type fakeSubnetAssigner struct {
	subnetCount uint64
}

func (a fakeSubnetAssigner) AssignSubnets(epoch types.Epoch, validatorIndices []uint64) []uint64 {
	seen := make(map[uint64]bool)
	out := make([]uint64, 0, len(validatorIndices))
	for _, idx := range validatorIndices {
		subnet := idx % a.subnetCount
		if !seen[subnet] {
			seen[subnet] = true
			out = append(out, subnet)
		}
	}
	return out
}

func TestSubnetManager_InitialSubscribeAdvertisesEveryActiveSubnet(t *testing.T) {
	pubsub := newFakeSubnetPubsub()
	metadata := p2p.NewMetadata(fakeSubnetENRUpdater{})
	mgr := NewSubnetManager(pubsub, NewMessageRouter(), metadata, &fakeSubnetValidatorPool{}, fakeSubnetAssigner{subnetCount: 64})

	if err := mgr.InitialSubscribe(context.Background(), 0); err != nil {
		t.Fatalf("InitialSubscribe returned error: %v", err)
	}

	active := mgr.ActiveSubnets()
	if len(active) == 0 {
		t.Fatal("expected a non-empty active subnet set after InitialSubscribe")
	}
	for _, idx := range active {
		if !metadata.IsAttSubnetActive(idx) {
			t.Errorf("subnet %d is in ActiveSubnets() but not advertised in the metadata bitfield (Invariant A)", idx)
		}
	}
}

func TestSubnetManager_CycleIsNoOpWithoutAttachedValidators(t *testing.T) {
	pubsub := newFakeSubnetPubsub()
	metadata := p2p.NewMetadata(fakeSubnetENRUpdater{})
	mgr := NewSubnetManager(pubsub, NewMessageRouter(), metadata, &fakeSubnetValidatorPool{}, fakeSubnetAssigner{subnetCount: 64})

	if err := mgr.InitialSubscribe(context.Background(), 0); err != nil {
		t.Fatalf("InitialSubscribe returned error: %v", err)
	}
	before := mgr.ActiveSubnets()
	seqBefore := metadata.SeqNumber()

	if err := mgr.Cycle(context.Background(), 1); err != nil {
		t.Fatalf("Cycle returned error: %v", err)
	}

	after := mgr.ActiveSubnets()
	if len(before) != len(after) {
		t.Errorf("expected Cycle with no attached validators to leave the subscription set unchanged, got %d -> %d subnets", len(before), len(after))
	}
	if metadata.SeqNumber() != seqBefore {
		t.Errorf("expected seqNumber to stay %d when Cycle is a no-op, got %d", seqBefore, metadata.SeqNumber())
	}
}

func TestSubnetManager_ClearRotationBucketsLeavesOnlyStabilitySubnet(t *testing.T) {
	pubsub := newFakeSubnetPubsub()
	metadata := p2p.NewMetadata(fakeSubnetENRUpdater{})
	pool := &fakeSubnetValidatorPool{indices: []uint64{1, 2, 3}}
	mgr := NewSubnetManager(pubsub, NewMessageRouter(), metadata, pool, fakeSubnetAssigner{subnetCount: 64})

	if err := mgr.InitialSubscribe(context.Background(), 0); err != nil {
		t.Fatalf("InitialSubscribe returned error: %v", err)
	}

	mgr.ClearRotationBuckets()

	active := mgr.ActiveSubnets()
	// The stability subnet bit survives clearing the rotation buckets, since
	// ActiveSubnets always includes it; only the rotation-driven entries are
	// cleared.
	if len(active) != 1 || active[0] != mgr.stabilitySubnet {
		t.Errorf("expected only the stability subnet to remain active after ClearRotationBuckets, got %v", active)
	}
}

func TestSubnetManager_InstallHandlersIsIdempotent(t *testing.T) {
	pubsub := newFakeSubnetPubsub()
	metadata := p2p.NewMetadata(fakeSubnetENRUpdater{})
	mgr := NewSubnetManager(pubsub, NewMessageRouter(), metadata, &fakeSubnetValidatorPool{}, fakeSubnetAssigner{subnetCount: 64})

	subnets := map[uint64]bool{1: true, 2: true}
	if err := mgr.installHandlers(context.Background(), subnets); err != nil {
		t.Fatalf("first installHandlers call returned error: %v", err)
	}
	if err := mgr.installHandlers(context.Background(), subnets); err != nil {
		t.Fatalf("second installHandlers call returned error: %v", err)
	}
	if len(pubsub.subscribed) != 2 {
		t.Errorf("expected repeat installHandlers calls to leave exactly 2 distinct subscriptions, got %d", len(pubsub.subscribed))
	}
}
