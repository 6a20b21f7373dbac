package node

import (
	"context"
	"sync"
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
	beaconsync "github.com/harbor-labs/beacon-chain/beacon-chain/sync"
)

// chainProcessor adapts a ChainDAG into sync.Processor. Fork-choice and
// attestation/proposal duty handling are state-transition concerns outside
// this core's scope (spec §1); this adapter only forwards the two calls the
// scheduler makes once per slot and reports what the DAG already knows.
type chainProcessor struct {
	dag         ChainDAG
	genesisTime time.Time

	mu             sync.RWMutex
	finalizedEpoch types.Epoch
}

func newChainProcessor(dag ChainDAG, genesisTime time.Time) *chainProcessor {
	return &chainProcessor{dag: dag, genesisTime: genesisTime}
}

func (c *chainProcessor) UpdateHead(ctx context.Context, wallSlot types.Slot) (types.Slot, error) {
	return c.dag.HeadSlot(), nil
}

func (c *chainProcessor) HandleValidatorDuties(ctx context.Context, lastSlot, wallSlot types.Slot) error {
	return nil
}

func (c *chainProcessor) FinalizedEpoch() types.Epoch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.finalizedEpoch
}

// setFinalizedEpoch lets the (out-of-scope) fork-choice engine publish its
// latest finalized checkpoint once it exists.
func (c *chainProcessor) setFinalizedEpoch(e types.Epoch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalizedEpoch = e
}

func (c *chainProcessor) GenesisTime() time.Time {
	return c.genesisTime
}

// localSyncManager is a minimal in-process stand-in for the real forward/
// range sync coordinator, which lives outside this core. It lets the gossip
// gate and second ticker observe sync progress without requiring the full
// sync pipeline to be wired up.
type localSyncManager struct {
	mu         sync.RWMutex
	queueLen   uint64
	inProgress bool
}

func newLocalSyncManager() *localSyncManager {
	return &localSyncManager{}
}

func (m *localSyncManager) SyncQueueLen() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queueLen
}

func (m *localSyncManager) InProgress() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inProgress
}

// SetQueueLen and SetInProgress are called by the (out-of-scope) range
// syncer as it makes progress.
func (m *localSyncManager) SetQueueLen(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLen = n
}

func (m *localSyncManager) SetInProgress(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inProgress = v
}

// localValidatorPool tracks which validator indices this node has attached
// keys for. The actual key management (wallet/keystore, remote signer) is
// outside this core's scope; callers populate this via Attach/Detach.
type localValidatorPool struct {
	mu      sync.RWMutex
	indices map[uint64]bool
}

func newLocalValidatorPool() *localValidatorPool {
	return &localValidatorPool{indices: make(map[uint64]bool)}
}

func (p *localValidatorPool) AttachedValidatorIndices() []uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]uint64, 0, len(p.indices))
	for idx := range p.indices {
		out = append(out, idx)
	}
	return out
}

func (p *localValidatorPool) Attach(index uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indices[index] = true
}

func (p *localValidatorPool) Detach(index uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.indices, index)
}

// modularSubnetAssigner is a placeholder for the committee-shuffling subnet
// assignment algorithm (consensus-rules territory, out of this core's
// scope): it deterministically spreads validator indices across the
// configured attestation subnet count so SubnetManager has something stable
// to cycle against in a standalone node.
type modularSubnetAssigner struct{}

func (modularSubnetAssigner) AssignSubnets(epoch types.Epoch, validatorIndices []uint64) []uint64 {
	count := params.BeaconConfig().AttestationSubnetCount
	seen := make(map[uint64]bool, len(validatorIndices))
	out := make([]uint64, 0, len(validatorIndices))
	for _, idx := range validatorIndices {
		subnet := idx % count
		if !seen[subnet] {
			seen[subnet] = true
			out = append(out, subnet)
		}
	}
	return out
}

// noopBlockFetcher logs ancestor-block fetch requests instead of issuing
// real peer-to-peer by-root requests; the request/response protocol is an
// external collaborator outside this core's scope.
type noopBlockFetcher struct{}

func (noopBlockFetcher) FetchAncestorBlocks(ctx context.Context, roots []beaconsync.BlockRoot) error {
	log.WithField("numRoots", len(roots)).Debug("Ancestor block fetch requested (no-op transport)")
	return nil
}

// noopSubscription is the Subscription handle noopPubsub hands out.
type noopSubscription struct {
	topic string
}

func (s *noopSubscription) Cancel()        {}
func (s *noopSubscription) Topic() string { return s.topic }

// noopPubsub logs subscribe/unsubscribe calls instead of driving a real
// libp2p-pubsub router; the gossip transport is an external collaborator
// reached only through sync.Pubsub (spec §1 scope).
type noopPubsub struct{}

func (noopPubsub) Subscribe(ctx context.Context, topic string, validator beaconsync.TopicValidator) (beaconsync.Subscription, error) {
	log.WithField("topic", topic).Debug("Subscribed to gossip topic (no-op transport)")
	return &noopSubscription{topic: topic}, nil
}

func (noopPubsub) Unsubscribe(topic string) error {
	log.WithField("topic", topic).Debug("Unsubscribed from gossip topic (no-op transport)")
	return nil
}

// noopENRUpdater logs ENR bitfield updates instead of writing them into a
// live enode.LocalNode record; the discv5 host is an external collaborator
// reached only through p2p.ENRUpdater.
type noopENRUpdater struct{}

func (noopENRUpdater) SetAttSubnets(bits bitfield.Bitvector64) {
	log.WithField("attnets", bits).Debug("ENR attnets updated (no-op host)")
}

func (noopENRUpdater) SetSyncSubnets(bits bitfield.Bitvector4) {
	log.WithField("syncnets", bits).Debug("ENR syncnets updated (no-op host)")
}
