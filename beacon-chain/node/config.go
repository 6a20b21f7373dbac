package node

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/harbor-labs/beacon-chain/beacon-chain/flags"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
	"github.com/harbor-labs/beacon-chain/shared/cmd"
	"github.com/harbor-labs/beacon-chain/shared/featureconfig"
	"github.com/harbor-labs/beacon-chain/shared/tracing"
	"github.com/urfave/cli/v2"
)

func configureTracing(cliCtx *cli.Context) error {
	return tracing.Setup(
		"beacon-chain",
		cliCtx.String(cmd.TracingProcessNameFlag.Name),
		cliCtx.String(cmd.TracingEndpointFlag.Name),
		cliCtx.Float64(cmd.TraceSampleFractionFlag.Name),
		cliCtx.Bool(cmd.EnableTracingFlag.Name),
	)
}

func configureChainConfig(cliCtx *cli.Context) {
	if featureconfig.Get().MinimalConfig {
		log.Warn("Using minimal config")
		params.OverrideBeaconConfig(params.MinimalConfig())
	}
}

func configureProofOfWork(cliCtx *cli.Context) {
	if cliCtx.IsSet(flags.ChainID.Name) {
		c := params.BeaconConfig()
		c.DepositChainID = cliCtx.Uint64(flags.ChainID.Name)
		params.OverrideBeaconConfig(c)
	}
	if cliCtx.IsSet(flags.NetworkID.Name) {
		c := params.BeaconConfig()
		c.DepositNetworkID = cliCtx.Uint64(flags.NetworkID.Name)
		params.OverrideBeaconConfig(c)
	}
	if cliCtx.IsSet(flags.DepositContractFlag.Name) {
		c := params.BeaconConfig()
		c.DepositContractAddress = cliCtx.String(flags.DepositContractFlag.Name)
		params.OverrideBeaconConfig(c)
	}
}

func configureNetwork(cliCtx *cli.Context) {
	if cliCtx.IsSet(flags.ContractDeploymentBlock.Name) {
		c := params.BeaconNetworkConfig()
		c.ContractDeploymentBlock = uint64(cliCtx.Int(flags.ContractDeploymentBlock.Name))
		params.OverrideBeaconNetworkConfig(c)
	}
}

// weakSubjectivityCheckpoint is the parsed form of the
// --weak-subjectivity-checkpoint flag.
type weakSubjectivityCheckpoint struct {
	blockRoot [32]byte
	epoch     types.Epoch
}

// configureWeakSubjectivityCheckpoint parses the
// --weak-subjectivity-checkpoint flag, if set, and returns nil otherwise.
func configureWeakSubjectivityCheckpoint(cliCtx *cli.Context) (*weakSubjectivityCheckpoint, error) {
	input := cliCtx.String(flags.WeakSubjectivityCheckpoint.Name)
	if input == "" {
		return nil, nil
	}
	root, epoch, err := convertWspInput(input)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --weak-subjectivity-checkpoint value")
	}
	var r [32]byte
	copy(r[:], root)
	return &weakSubjectivityCheckpoint{blockRoot: r, epoch: epoch}, nil
}

// convertWspInput parses a "block_root:epoch_number" weak subjectivity
// checkpoint string into its components. The block root may be given with
// or without a leading "0x" and must decode to exactly 32 bytes; the epoch
// is a plain decimal integer.
func convertWspInput(input string) ([]byte, types.Epoch, error) {
	parts := strings.Split(input, ":")
	if len(parts) == 1 {
		return nil, 0, errors.New("weak subjectivity checkpoint input did not contain column")
	}
	if len(parts) != 2 {
		return nil, 0, errors.New("weak subjectivity checkpoint input should be in `block_root:epoch_number` format")
	}

	rootStr := strings.TrimPrefix(parts[0], "0x")
	root, err := hex.DecodeString(rootStr)
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not decode block root as hex")
	}
	if len(root) != 32 {
		return nil, 0, errors.Errorf("block root is not length of 32, length received: %d", len(root))
	}

	epoch, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not parse epoch as integer")
	}
	return root, types.Epoch(epoch), nil
}
