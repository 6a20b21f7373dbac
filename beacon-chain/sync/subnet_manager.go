package sync

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
	types "github.com/prysmaticlabs/eth2-types"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	bcparams "github.com/harbor-labs/beacon-chain/beacon-chain/params"
	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
)

// SubnetManager owns the set of subscribed attestation subnets, rotates
// them each epoch as validator assignments change, and keeps the advertised
// metadata bitfield consistent with live subscriptions (spec §4.3).
//
// Every mutating method here is invoked from the SlotScheduler's single
// call chain (spec §5): no locking is needed for subscribedSubnets or the
// stability-subnet fields, only for the subscriptions map which
// installHandlers/unsubscribe touch via the errgroup fan-out.
type SubnetManager struct {
	pubsub   Pubsub
	router   *MessageRouter
	metadata *p2p.Metadata
	pool     ValidatorPool
	assigner SubnetAssigner

	mu            sync.Mutex
	subscriptions map[uint64]Subscription

	buckets [2]map[uint64]bool // subscribedSubnets[0..1], rotated by epoch parity

	stabilitySubnet                uint64
	stabilitySubnetExpirationEpoch types.Epoch
}

// NewSubnetManager wires a SubnetManager to its external collaborators.
func NewSubnetManager(pubsub Pubsub, router *MessageRouter, metadata *p2p.Metadata, pool ValidatorPool, assigner SubnetAssigner) *SubnetManager {
	return &SubnetManager{
		pubsub:        pubsub,
		router:        router,
		metadata:      metadata,
		pool:          pool,
		assigner:      assigner,
		subscriptions: make(map[uint64]Subscription),
		buckets:       [2]map[uint64]bool{{}, {}},
	}
}

// InitialSubscribe subscribes to every attestation subnet on startup and
// seeds both rotation buckets with the full set, plus a freshly chosen
// stability subnet (spec §4.3).
func (m *SubnetManager) InitialSubscribe(ctx context.Context, currentEpoch types.Epoch) error {
	count := bcparams.BeaconConfig().AttestationSubnetCount
	all := make(map[uint64]bool, count)
	for i := uint64(0); i < count; i++ {
		all[i] = true
	}

	if err := m.installHandlers(ctx, all); err != nil {
		return errors.Wrap(err, "could not subscribe to initial attestation subnets")
	}

	m.buckets[0] = copySet(all)
	m.buckets[1] = copySet(all)

	//nolint:gosec // not used for anything security sensitive, just subnet spread.
	m.stabilitySubnet = uint64(rand.Intn(int(count)))
	m.stabilitySubnetExpirationEpoch = currentEpoch + m.stabilityLength()

	m.reconcileAdvertised()
	return nil
}

// stabilityLength returns how many epochs a stability subnet is held
// before being reshuffled.
func (m *SubnetManager) stabilityLength() types.Epoch {
	return bcparams.BeaconConfig().EpochsPerRandomSubnetSubscription
}

// Cycle is called at the first slot of each epoch (spec §4.3). If no
// validators are attached, it is a no-op: the node retains whatever
// subscription set it already has (edge policy, spec §4.3 and Testable
// Property 4).
func (m *SubnetManager) Cycle(ctx context.Context, epoch types.Epoch) error {
	indices := m.pool.AttachedValidatorIndices()
	if len(indices) == 0 {
		return nil
	}

	if epoch >= m.stabilitySubnetExpirationEpoch {
		m.reshuffleStabilitySubnet(epoch)
	}

	wanted := m.assigner.AssignSubnets(epoch, indices)
	wantedSet := make(map[uint64]bool, len(wanted))
	for _, idx := range wanted {
		wantedSet[idx] = true
	}

	parity := epoch % 2
	prior := m.buckets[parity]

	expiring := diffSubnets(prior, wantedSet)
	newlyJoined := diffSubnets(wantedSet, prior)

	// 1. Await unsubscribe(expiringSubnets).
	if err := m.unsubscribe(ctx, expiring); err != nil {
		quarantineLog.WithError(err).Warn("Could not unsubscribe expiring attestation subnets")
	}

	// 2. Increment seqNumber; clear expiring bits.
	kept := copySet(prior)
	for _, idx := range expiring {
		delete(kept, idx)
	}
	m.buckets[parity] = kept
	m.reconcileAdvertised()

	// 3. installHandlers(newlyJoinedSubnets); set bits; seq increments again
	//    inside reconcileAdvertised iff bits actually changed.
	if err := m.installHandlers(ctx, setFromSlice(newlyJoined)); err != nil {
		quarantineLog.WithError(err).Warn("Could not install handlers for newly joined attestation subnets")
	}
	m.buckets[parity] = wantedSet
	m.reconcileAdvertised()

	// 4. Assert Invariant A.
	m.assertInvariantA()
	return nil
}

// installHandlers idempotently subscribes to every subnet in the set that
// isn't already subscribed (Testable Property 6: repeat calls are a no-op
// in observable state).
func (m *SubnetManager) installHandlers(ctx context.Context, subnets map[uint64]bool) error {
	m.mu.Lock()
	toSubscribe := make([]uint64, 0, len(subnets))
	for idx := range subnets {
		if _, exists := m.subscriptions[idx]; !exists {
			toSubscribe = append(toSubscribe, idx)
		}
	}
	m.mu.Unlock()

	if len(toSubscribe) == 0 {
		return nil
	}

	grp, gctx := errgroup.WithContext(ctx)
	results := make([]Subscription, len(toSubscribe))
	for i, idx := range toSubscribe {
		i, idx := i, idx
		grp.Go(func() error {
			topic := attestationSubnetTopic(idx)
			sub, err := m.pubsub.Subscribe(gctx, topic, m.router.ValidatorFor(topic))
			if err != nil {
				return err
			}
			results[i] = sub
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	for i, idx := range toSubscribe {
		if results[i] != nil {
			m.subscriptions[idx] = results[i]
		}
	}
	m.mu.Unlock()
	return nil
}

// unsubscribe cancels the given subnets' subscriptions, in parallel.
func (m *SubnetManager) unsubscribe(ctx context.Context, subnets []uint64) error {
	if len(subnets) == 0 {
		return nil
	}
	grp, _ := errgroup.WithContext(ctx)
	for _, idx := range subnets {
		idx := idx
		m.mu.Lock()
		sub, ok := m.subscriptions[idx]
		m.mu.Unlock()
		if !ok {
			continue
		}
		grp.Go(func() error {
			sub.Cancel()
			return m.pubsub.Unsubscribe(attestationSubnetTopic(idx))
		})
		m.mu.Lock()
		delete(m.subscriptions, idx)
		m.mu.Unlock()
	}
	return grp.Wait()
}

// ClearRotationBuckets empties both rotation buckets, used when the
// GossipGate disables gossip entirely (spec §4.4, Testable Property 5).
func (m *SubnetManager) ClearRotationBuckets() {
	m.buckets[0] = map[uint64]bool{}
	m.buckets[1] = map[uint64]bool{}
	m.reconcileAdvertised()
}

// InitialSubnets returns the full attestation-subnet-count set, used by the
// GossipGate when first enabling gossip.
func (m *SubnetManager) InitialSubnets() []uint64 {
	count := bcparams.BeaconConfig().AttestationSubnetCount
	out := make([]uint64, count)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

// ActiveSubnets returns the union of both rotation buckets plus the
// stability subnet: the set that should currently be advertised (Invariant
// A).
func (m *SubnetManager) ActiveSubnets() []uint64 {
	union := unionSets(m.buckets[0], m.buckets[1])
	union[m.stabilitySubnet] = true
	out := make([]uint64, 0, len(union))
	for idx := range union {
		out = append(out, idx)
	}
	return out
}

func (m *SubnetManager) reshuffleStabilitySubnet(currentEpoch types.Epoch) {
	count := bcparams.BeaconConfig().AttestationSubnetCount
	//nolint:gosec
	m.stabilitySubnet = uint64(rand.Intn(int(count)))
	m.stabilitySubnetExpirationEpoch = currentEpoch + m.stabilityLength()
}

// reconcileAdvertised recomputes the advertised bitfield from the union of
// both rotation buckets plus the stability subnet, and pushes it to the
// metadata record. p2p.Metadata.SetAttSubnets only increments seqNumber if
// the bitfield actually changed, satisfying Invariant B.
func (m *SubnetManager) reconcileAdvertised() {
	count := bcparams.BeaconConfig().AttestationSubnetCount
	bits := bitfield.NewBitvector64()
	for idx := range m.buckets[0] {
		bits.SetBitAt(idx, true)
	}
	for idx := range m.buckets[1] {
		bits.SetBitAt(idx, true)
	}
	if count > 0 {
		bits.SetBitAt(m.stabilitySubnet, true)
	}
	m.metadata.SetAttSubnets(bits)
}

// assertInvariantA logs an error for every subnet whose advertised bit
// differs from ActiveSubnets (both rotation buckets plus the stability
// subnet). It never panics, and it does not consult the live subscription
// map. Cycle runs it after every rotation (Testable Property 1).
func (m *SubnetManager) assertInvariantA() {
	want := make(map[uint64]bool)
	for _, idx := range m.ActiveSubnets() {
		want[idx] = true
	}
	attnets := m.metadata.Attnets()
	count := bcparams.BeaconConfig().AttestationSubnetCount
	for i := uint64(0); i < count; i++ {
		if attnets.BitAt(i) != want[i] {
			quarantineLog.Errorf("subnet invariant A violated at subnet %d: advertised=%v wanted=%v", i, attnets.BitAt(i), want[i])
		}
	}
}

func copySet(s map[uint64]bool) map[uint64]bool {
	out := make(map[uint64]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func setFromSlice(s []uint64) map[uint64]bool {
	out := make(map[uint64]bool, len(s))
	for _, v := range s {
		out[v] = true
	}
	return out
}

func unionSets(a, b map[uint64]bool) map[uint64]bool {
	out := make(map[uint64]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// diffSubnets returns the keys present in a but not in b.
func diffSubnets(a, b map[uint64]bool) []uint64 {
	out := make([]uint64, 0)
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	return out
}
