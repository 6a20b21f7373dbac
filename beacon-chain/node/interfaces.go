package node

import (
	"context"
	"time"

	types "github.com/prysmaticlabs/eth2-types"
)

// GenesisState is the minimal view of a reference BeaconState the
// orchestration core needs to bootstrap: enough to construct a BeaconClock,
// size subnet bitvectors and run the weak-subjectivity check. The full
// state (validator registry, balances, ...) belongs to the state-transition
// package and is opaque here.
type GenesisState struct {
	Slot                  types.Slot
	GenesisTime           time.Time
	GenesisValidatorsRoot [32]byte
	ActiveValidatorCount  uint64
}

// GenesisBlock is the minimal view of the block paired with a genesis or
// checkpoint state.
type GenesisBlock struct {
	Slot types.Slot
	Root [32]byte
}

// CheckpointLoader reads a user-supplied finalized checkpoint state/block
// pair from disk. An external collaborator: the on-disk format (SSZ, etc)
// is outside this core's scope.
type CheckpointLoader interface {
	LoadFinalizedCheckpointState(path string) (*GenesisState, error)
	LoadFinalizedCheckpointBlock(path string) (*GenesisBlock, error)
}

// NetworkGenesisProvider supplies the baked-in genesis blob for a named
// network (e.g. a public testnet), the second genesis source in priority
// (spec §4.7 step 2).
type NetworkGenesisProvider interface {
	BakedGenesis(network string) (*GenesisState, bool)
}

// Eth1Monitor is the external deposit-contract watcher: the third and
// lowest-priority genesis source. AwaitGenesis blocks (a suspension point,
// spec §5) until chain-start conditions are observed on the configured
// Web3 endpoint.
type Eth1Monitor interface {
	Start()
	Stop() error
	Status() error
	AwaitGenesis(ctx context.Context) (*GenesisState, error)
}

// ChainDAG is the fork-choice DAG and canonical chain store; an external
// collaborator referenced only through this interface (spec §1 scope).
type ChainDAG interface {
	PreInit(genesisState *GenesisState, tailState *GenesisState, tailBlock *GenesisBlock) error
	Init(verifyFinalization bool) error
	HeadSlot() types.Slot
	HeadState() *GenesisState
}

// BeaconDB is the on-disk key-value store; an external collaborator.
type BeaconDB interface {
	Close() error
}
