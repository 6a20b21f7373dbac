package sync

import (
	"context"
	"time"

	types "github.com/prysmaticlabs/eth2-types"
)

// Processor is the consensus state-transition / fork-choice engine. It is an
// external collaborator: this package never touches the ChainDAG directly,
// it only invokes these two entry points once per slot tick (spec §4.5
// steps 5-6).
type Processor interface {
	// UpdateHead recomputes fork-choice for wallSlot and may change the DAG
	// head; it returns the resulting head slot.
	UpdateHead(ctx context.Context, wallSlot types.Slot) (headSlot types.Slot, err error)
	// HandleValidatorDuties runs attestation/proposal duties for the slot
	// range (lastSlot, wallSlot]; it may await aggregation windows within
	// the slot but must return before the scheduler proceeds to the gate.
	HandleValidatorDuties(ctx context.Context, lastSlot, wallSlot types.Slot) error
	// FinalizedEpoch reports the processor's last finalized checkpoint
	// epoch, used for the finalization-delay metric.
	FinalizedEpoch() types.Epoch
	// GenesisTime reports the reference genesis time; a zero time means
	// genesis has not yet been established.
	GenesisTime() time.Time
}

// SyncManager is the external forward/range synchronizer. GossipGate reads
// its queue depth and SecondTicker its "in progress" flag; neither drives it.
type SyncManager interface {
	SyncQueueLen() uint64
	InProgress() bool
}

// Pubsub is the boundary with the libp2p gossip transport. Subscribe and
// Unsubscribe are the suspension points named in spec §5: re-entrancy with
// other tasks is possible while they are in flight.
type Pubsub interface {
	Subscribe(ctx context.Context, topic string, validator TopicValidator) (Subscription, error)
	Unsubscribe(topic string) error
}

// Subscription is a live gossip subscription handle.
type Subscription interface {
	Cancel()
	Topic() string
}

// TopicValidator is the synchronous verdict function a MessageRouter
// installs per topic (spec §4.8).
type TopicValidator func(ctx context.Context, msg *GossipMessage) ValidationResult

// ValidatorPool reports which validator indices this node has attached, so
// SubnetManager knows whether `cycle` has any work to do (spec §4.3 edge
// policy: no validators attached means cycle is a no-op).
type ValidatorPool interface {
	AttachedValidatorIndices() []uint64
}

// SubnetAssigner computes the attestation-subnet committee assignment for a
// set of validator indices at a given epoch. The assignment algorithm
// itself is consensus-rules territory (committee shuffling over BeaconState)
// and lives outside this core; SubnetManager only consumes the result.
type SubnetAssigner interface {
	AssignSubnets(epoch types.Epoch, validatorIndices []uint64) []uint64
}

// BlockFetcher is the RequestManager's boundary: it issues peer-parallel
// by-root requests and hands completions to the processor's block queue. It
// never writes to the DAG directly (spec §4.2).
type BlockFetcher interface {
	FetchAncestorBlocks(ctx context.Context, roots []BlockRoot) error
}

// BlockKnown reports whether a root is already present in the DB/DAG.
// Quarantine does not consult it: its only guard against re-requesting a
// root is the request cooldown.
type BlockKnown interface {
	HasBlock(ctx context.Context, root BlockRoot) bool
}
