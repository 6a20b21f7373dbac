// Package params defines the protocol-level constants the orchestration
// core needs: slot/epoch arithmetic, weak-subjectivity thresholds and the
// gossip subnet/gate thresholds. None of the consensus state-transition
// constants (rewards, penalties, committee math) live here; this is only
// the subset the node driver itself reads.
package params

import "github.com/prysmaticlabs/eth2-types"

// BeaconChainConfig groups every constant the orchestration core consults.
// A single global instance holds the mainnet values by default and is
// swapped with OverrideBeaconConfig (for example with MinimalConfig() for
// local/dev networks), mirroring the way the consensus layer treats its own
// config as a swappable global.
type BeaconChainConfig struct {
	// Time parameters.
	SecondsPerSlot uint64        // SecondsPerSlot is the protocol's slot duration.
	SlotsPerEpoch  types.Slot    // SlotsPerEpoch groups slots into rotation epochs.
	GenesisSlot    types.Slot    // GenesisSlot is the first slot of the chain.
	GenesisEpoch   types.Epoch   // GenesisEpoch is the epoch containing GenesisSlot.
	FarFutureEpoch types.Epoch   // FarFutureEpoch marks "never" for epoch-valued fields.
	FarFutureSlot  types.Slot    // FarFutureSlot marks "never" for slot-valued fields.

	// Weak subjectivity / validator churn.
	MinValidatorWithdrawabilityDelay types.Epoch // MinValidatorWithdrawabilityDelay is the base term of the wsp formula.
	SafetyDecay                     uint64       // SafetyDecay is the percent-per-period decay budget (out of 100).
	ChurnLimitQuotient               uint64      // ChurnLimitQuotient bounds how fast validators can churn.
	MinPerEpochChurnLimit            uint64      // MinPerEpochChurnLimit is the minimum churn floor.

	// Subnet / gossip parameters.
	AttestationSubnetCount              uint64      // AttestationSubnetCount is the number of attestation gossip shards.
	SyncCommitteeSubnetCount            uint64      // SyncCommitteeSubnetCount is the number of sync-committee gossip shards.
	RandomSubnetsPerValidator           uint64      // RandomSubnetsPerValidator is always 1: one stability subnet.
	EpochsPerRandomSubnetSubscription   types.Epoch // EpochsPerRandomSubnetSubscription bounds stability-subnet reshuffle length.

	GenesisValidatorsRootPlaceholder [32]byte // zero value used before a genesis source resolves one.

	// Deposit-contract identifiers, read by the Eth1Monitor genesis source.
	DepositChainID         uint64 // DepositChainID is the chain id of the deposit contract's network.
	DepositNetworkID       uint64 // DepositNetworkID is the network id of the deposit contract's network.
	DepositContractAddress string // DepositContractAddress is the address the Eth1Monitor watches.
}

const (
	// mainnetSecondsPerSlot is the production network's slot duration.
	mainnetSecondsPerSlot = 12
	// mainnetSlotsPerEpoch is the production network's epoch length.
	mainnetSlotsPerEpoch = 32
)

var beaconConfig = mainnetConfig()

// BeaconConfig returns the currently installed global config.
func BeaconConfig() *BeaconChainConfig {
	return beaconConfig
}

// OverrideBeaconConfig swaps the installed global config. Intended for tests
// and for the minimal/interop network modes; production code should never
// call this after the node has started ticking.
func OverrideBeaconConfig(cfg *BeaconChainConfig) {
	beaconConfig = cfg
}

func mainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		SecondsPerSlot:                     mainnetSecondsPerSlot,
		SlotsPerEpoch:                      mainnetSlotsPerEpoch,
		GenesisSlot:                        0,
		GenesisEpoch:                       0,
		FarFutureEpoch:                     types.Epoch(^uint64(0)),
		FarFutureSlot:                      types.Slot(^uint64(0)),
		MinValidatorWithdrawabilityDelay:   256,
		SafetyDecay:                        10,
		ChurnLimitQuotient:                 65536,
		MinPerEpochChurnLimit:              4,
		AttestationSubnetCount:             64,
		SyncCommitteeSubnetCount:           4,
		RandomSubnetsPerValidator:          1,
		EpochsPerRandomSubnetSubscription:  256,
	}
}

// MinimalConfig returns a scaled-down config suitable for interop/e2e
// networks, with a much shorter epoch so subnet rotation and weak
// subjectivity math can be exercised quickly in tests.
func MinimalConfig() *BeaconChainConfig {
	cfg := mainnetConfig()
	cfg.SlotsPerEpoch = 8
	cfg.EpochsPerRandomSubnetSubscription = 8
	cfg.MinValidatorWithdrawabilityDelay = 8
	return cfg
}
