// Package main is the beacon-chain binary entrypoint: flag parsing, logging
// setup and the call into node.New to build and run the orchestration core.
package main

import (
	"fmt"
	"os"
	"runtime"
	runtimeDebug "runtime/debug"

	joonix "github.com/joonix/log"
	"github.com/harbor-labs/beacon-chain/beacon-chain/flags"
	"github.com/harbor-labs/beacon-chain/beacon-chain/node"
	"github.com/harbor-labs/beacon-chain/shared/cmd"
	"github.com/harbor-labs/beacon-chain/shared/debug"
	"github.com/harbor-labs/beacon-chain/shared/featureconfig"
	"github.com/harbor-labs/beacon-chain/shared/logutil"
	"github.com/harbor-labs/beacon-chain/shared/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	_ "go.uber.org/automaxprocs"
)

var appFlags = []cli.Flag{
	flags.Web3ProviderFlag,
	flags.HTTPWeb3ProviderFlag,
	flags.DepositContractFlag,
	flags.ContractDeploymentBlock,
	flags.ChainID,
	flags.NetworkID,
	flags.FinalizedCheckpointState,
	flags.FinalizedCheckpointBlock,
	flags.WeakSubjectivityCheckpoint,
	flags.Eth2NetworkFlag,
	flags.RPCHost,
	flags.RPCPort,
	flags.RPCMaxPageSize,
	flags.DisableRPC,
	flags.CertFlag,
	flags.KeyFlag,
	flags.GRPCGatewayPort,
	flags.MinSyncPeers,
	flags.SetGCPercent,
	flags.RequestSlotGC,
	flags.UnsafeSync,
	flags.StopAtEpoch,
	flags.InteropGenesisStateFlag,
	flags.InteropNumValidatorsFlag,
	flags.InteropGenesisTimeFlag,
	flags.GraffitiFlag,
	flags.NodeNameFlag,
	cmd.DataDirFlag,
	cmd.VerbosityFlag,
	cmd.EnableTracingFlag,
	cmd.TracingProcessNameFlag,
	cmd.TracingEndpointFlag,
	cmd.TraceSampleFractionFlag,
	cmd.MonitoringHostFlag,
	cmd.MonitoringPortFlag,
	cmd.DisableMonitoringFlag,
	cmd.ClearDB,
	cmd.ForceClearDB,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.MaxGoroutines,
	cmd.ConfigFileFlag,
	debug.PProfFlag,
	debug.PProfAddrFlag,
	debug.PProfPortFlag,
	debug.MemProfileRateFlag,
	debug.CPUProfileFlag,
	debug.TraceFlag,
}

func init() {
	appFlags = cmd.WrapFlags(append(appFlags, featureconfig.BeaconChainFlags...))
}

func main() {
	log := logrus.WithField("prefix", "main")
	app := cli.App{}
	app.Name = "beacon-chain"
	app.Usage = "a beacon chain node orchestration core for Ethereum 2.0"
	app.Action = startNode
	app.Version = version.GetVersion()
	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		// Load any flags from file, if specified.
		if ctx.IsSet(cmd.ConfigFileFlag.Name) {
			if err := altsrc.InitInputSourceWithContext(appFlags, altsrc.NewYamlSourceFromFlagFunc(cmd.ConfigFileFlag.Name))(ctx); err != nil {
				return err
			}
		}

		format := ctx.String(cmd.LogFormat.Name)
		switch format {
		case "text":
			formatter := new(prefixed.TextFormatter)
			formatter.TimestampFormat = "2006-01-02 15:04:05"
			formatter.FullTimestamp = true
			// ANSI color codes read as gibberish once redirected to a file.
			formatter.DisableColors = ctx.String(cmd.LogFileName.Name) != ""
			logrus.SetFormatter(formatter)
		case "fluentd":
			f := joonix.NewFormatter()
			if err := joonix.DisableTimestampFormat(f); err != nil {
				panic(err)
			}
			logrus.SetFormatter(f)
		case "json":
			logrus.SetFormatter(&logrus.JSONFormatter{})
		default:
			return fmt.Errorf("unknown log format %s", format)
		}

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logutil.ConfigurePersistentLogging(logFileName); err != nil {
				log.WithError(err).Error("Failed to configure logging to disk")
			}
		}

		if ctx.IsSet(flags.SetGCPercent.Name) {
			runtimeDebug.SetGCPercent(ctx.Int(flags.SetGCPercent.Name))
		}
		runtime.GOMAXPROCS(runtime.NumCPU())
		return debug.Setup(ctx)
	}

	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func startNode(ctx *cli.Context) error {
	verbosity := ctx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	featureconfig.ConfigureBeaconChain(ctx)

	beacon, err := node.New(ctx)
	if err != nil {
		return err
	}
	return beacon.Start()
}
