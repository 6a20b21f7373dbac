// Package featureconfig exposes a small set of opt-in runtime toggles,
// parsed once at startup and read as an immutable global for the rest of
// the process's life. Kept deliberately small: anything that changes
// consensus-critical behavior belongs in beacon-chain/params, not here.
package featureconfig

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "featureconfig")

// Flags is the set of parsed feature toggles for this process.
type Flags struct {
	MinimalConfig  bool // MinimalConfig selects the minimal preset over mainnet.
	NoGenesisDelay bool // NoGenesisDelay skips the standard genesis start delay.
}

var featureFlags *Flags

// Get returns the active feature flag set. Safe to call before Init; returns
// the zero value (all features off) in that case.
func Get() *Flags {
	if featureFlags == nil {
		return &Flags{}
	}
	return featureFlags
}

// Init sets the global feature flag set. Exposed directly for tests that
// need to enable a feature without going through a CLI context.
func Init(f *Flags) {
	featureFlags = f
}

// ConfigureBeaconChain parses feature flags out of a CLI context and sets
// them as the global config for the process.
func ConfigureBeaconChain(ctx *cli.Context) {
	cfg := &Flags{}
	if ctx.Bool(MinimalConfigFlag.Name) {
		log.Warn("Using minimal config")
		cfg.MinimalConfig = true
	}
	if ctx.Bool(NoGenesisDelayFlag.Name) {
		log.Warn("Using non-standard genesis delay; this may cause issues in a multi-node environment")
		cfg.NoGenesisDelay = true
	}
	Init(cfg)
}
