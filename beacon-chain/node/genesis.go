package node

import (
	"context"

	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
)

// GenesisSource records which of the three sources (spec §4.7 step 2)
// actually supplied the genesis/tail state; it is reported in the
// "Genesis resolved" log line. The weak-subjectivity check does not branch
// on it.
type GenesisSource int

const (
	// GenesisSourceCheckpoint means a finalized checkpoint state/block pair
	// was configured and loaded from disk.
	GenesisSourceCheckpoint GenesisSource = iota
	// GenesisSourceBaked means the baked-in network metadata supplied a
	// genesis blob.
	GenesisSourceBaked
	// GenesisSourceEth1 means the node awaited live genesis detection from
	// the deposit-contract watcher.
	GenesisSourceEth1
)

// resolvedGenesis is the result of resolving one of the three genesis
// sources: the tail state/block the DAG should be pre-initialized from, and
// which source supplied it.
type resolvedGenesis struct {
	source     GenesisSource
	state      *GenesisState
	block      *GenesisBlock
}

// resolveGenesis implements spec §4.7 step 2's priority order: a configured
// finalized checkpoint first, then baked network metadata, then a blocking
// wait on the live Eth1Monitor. Exactly one of checkpointStatePath/network/
// eth1Monitor is expected to be usable per call; callers that provide
// multiple conflicting sources should have already rejected that
// configuration (spec §9, "Conflicts").
func resolveGenesis(ctx context.Context, cfg *GenesisConfig) (*resolvedGenesis, error) {
	if cfg.CheckpointStatePath != "" {
		state, err := cfg.Loader.LoadFinalizedCheckpointState(cfg.CheckpointStatePath)
		if err != nil {
			return nil, errors.Wrap(err, "could not load finalized checkpoint state")
		}
		var block *GenesisBlock
		if state.Slot != 0 {
			if cfg.CheckpointBlockPath == "" {
				return nil, errors.New("checkpoint state has nonzero slot but no matching checkpoint block was configured")
			}
			block, err = cfg.Loader.LoadFinalizedCheckpointBlock(cfg.CheckpointBlockPath)
			if err != nil {
				return nil, errors.Wrap(err, "could not load finalized checkpoint block")
			}
		} else {
			block = &GenesisBlock{Slot: 0}
		}
		return &resolvedGenesis{source: GenesisSourceCheckpoint, state: state, block: block}, nil
	}

	if cfg.NetworkProvider != nil {
		if state, ok := cfg.NetworkProvider.BakedGenesis(cfg.NetworkName); ok {
			return &resolvedGenesis{
				source: GenesisSourceBaked,
				state:  state,
				block:  &GenesisBlock{Slot: 0},
			}, nil
		}
	}

	if cfg.Eth1Monitor == nil {
		return nil, errors.New("no checkpoint configured, no baked genesis for network, and no Eth1 endpoint to await genesis from")
	}
	cfg.Eth1Monitor.Start()
	state, err := cfg.Eth1Monitor.AwaitGenesis(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "eth1 monitor failed before genesis was observed")
	}
	return &resolvedGenesis{
		source: GenesisSourceEth1,
		state:  state,
		block:  &GenesisBlock{Slot: 0},
	}, nil
}

// GenesisConfig bundles everything resolveGenesis needs to try the three
// sources in priority order.
type GenesisConfig struct {
	CheckpointStatePath string
	CheckpointBlockPath string
	Loader              CheckpointLoader
	NetworkProvider     NetworkGenesisProvider
	NetworkName         string
	Eth1Monitor         Eth1Monitor
}

// weakSubjectivityPeriod implements the formula from spec §4.7 step 5:
//
//	wsp = MIN_VALIDATOR_WITHDRAWABILITY_DELAY + SAFETY_DECAY * Q / 200
//
// where Q is CHURN_LIMIT_QUOTIENT if active_validators is large enough to
// saturate the per-epoch churn limit, else the validator count scaled down
// proportionally. All arithmetic is integer with truncation, matching the
// reference formula exactly (Testable Property 11: zero validators yields
// wsp == MIN_VALIDATOR_WITHDRAWABILITY_DELAY, since Q == 0 in that branch).
func weakSubjectivityPeriod(activeValidators uint64) types.Epoch {
	cfg := params.BeaconConfig()
	var q uint64
	if activeValidators >= cfg.MinPerEpochChurnLimit*cfg.ChurnLimitQuotient {
		q = cfg.ChurnLimitQuotient
	} else {
		q = activeValidators / cfg.MinPerEpochChurnLimit
	}
	return cfg.MinValidatorWithdrawabilityDelay + types.Epoch(cfg.SafetyDecay*q/200)
}

// isWithinWeakSubjectivityPeriod reports whether currentSlot is still
// within the weak-subjectivity window of a checkpoint taken at
// checkpointSlot, given the active validator count observed in the
// checkpoint state (spec §4.7 step 5, and the checkpoint-start end-to-end
// scenario in §8).
func isWithinWeakSubjectivityPeriod(currentSlot, checkpointSlot types.Slot, activeValidators uint64) bool {
	wsp := weakSubjectivityPeriod(activeValidators)
	slotsPerEpoch := params.BeaconConfig().SlotsPerEpoch
	elapsed := currentSlot - checkpointSlot
	return elapsed <= types.Slot(wsp)*slotsPerEpoch
}
