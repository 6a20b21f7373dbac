package featureconfig

import "github.com/urfave/cli/v2"

var (
	// MinimalConfigFlag enables the minimal preset used for spec testing
	// and local devnets instead of the default mainnet preset.
	MinimalConfigFlag = &cli.BoolFlag{
		Name:  "minimal-config",
		Usage: "Use minimal config with parameters as defined in the spec, instead of the default mainnet config.",
	}
	// NoGenesisDelayFlag skips the standard genesis delay, starting the
	// clock from the chain-start time observed by the Eth1Monitor with no
	// buffer.
	NoGenesisDelayFlag = &cli.BoolFlag{
		Name:  "no-genesis-delay",
		Usage: "Start the beacon clock immediately at the observed chain-start time rather than waiting a standard delay.",
	}
)

// BeaconChainFlags contains all the feature flags that apply to the beacon
// node.
var BeaconChainFlags = []cli.Flag{
	MinimalConfigFlag,
	NoGenesisDelayFlag,
}
