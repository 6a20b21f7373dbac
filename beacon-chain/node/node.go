// Package node assembles and runs the beacon node lifecycle: genesis
// resolution, service registration and graceful shutdown. It is the
// top-level orchestrator (C7) that every other component in this module is
// built to be driven by.
package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/harbor-labs/beacon-chain/beacon-chain/flags"
	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
	"github.com/harbor-labs/beacon-chain/beacon-chain/slotutil"
	beaconsync "github.com/harbor-labs/beacon-chain/beacon-chain/sync"
	"github.com/harbor-labs/beacon-chain/shared"
	"github.com/harbor-labs/beacon-chain/shared/cmd"
	"github.com/harbor-labs/beacon-chain/shared/debug"
	"github.com/harbor-labs/beacon-chain/shared/fileutil"
	"github.com/harbor-labs/beacon-chain/shared/prometheus"
	"github.com/harbor-labs/beacon-chain/shared/status"
	"github.com/harbor-labs/beacon-chain/shared/version"
)

var log = logrus.WithField("prefix", "node")

const pidFileName = "beacon_node.pid"
const enrFileName = "beacon_node.enr"

// BeaconNode ties together every long-running subsystem of a single beacon
// chain process: the service registry that owns them, the genesis state
// they were bootstrapped from, and the signal handling that tears them back
// down. Exactly one BeaconNode exists per process.
type BeaconNode struct {
	cliCtx   *cli.Context
	services *shared.ServiceRegistry
	lock     sync.RWMutex
	stop     chan struct{}

	dataDir  string
	genesis  *resolvedGenesis
	clock    *slotutil.BeaconClock
	metadata *p2p.Metadata
}

// New builds a BeaconNode: it resolves genesis, constructs the BeaconClock,
// and registers every owned service (metrics, sync orchestration) with the
// service registry. It does not start the registered services; that is
// Start's job. (When no checkpoint or baked genesis is available, genesis
// resolution starts the Eth1 monitor and waits on it here.)
func New(cliCtx *cli.Context) (*BeaconNode, error) {
	if err := configureTracing(cliCtx); err != nil {
		return nil, errors.Wrap(err, "could not configure tracing")
	}
	configureChainConfig(cliCtx)
	configureProofOfWork(cliCtx)
	configureNetwork(cliCtx)

	dataDir := cliCtx.String(cmd.DataDirFlag.Name)
	if err := fileutil.MkdirAll(dataDir); err != nil {
		return nil, errors.Wrap(err, "could not create data directory")
	}
	if err := handleClearDB(cliCtx, dataDir); err != nil {
		return nil, err
	}

	wsCheckpoint, err := configureWeakSubjectivityCheckpoint(cliCtx)
	if err != nil {
		return nil, err
	}

	registry := shared.NewServiceRegistry()
	beacon := &BeaconNode{
		cliCtx:   cliCtx,
		services: registry,
		stop:     make(chan struct{}),
		dataDir:  dataDir,
	}

	genesis, clock, err := beacon.resolveGenesisAndClock(cliCtx)
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve genesis")
	}
	beacon.genesis = genesis
	beacon.clock = clock

	if wsCheckpoint != nil {
		if !isWithinWeakSubjectivityPeriod(clock.SlotOrZero(), genesis.block.Slot, genesis.state.ActiveValidatorCount) {
			return nil, errors.New("configured weak subjectivity checkpoint has fallen outside the weak subjectivity period; a trusted fresh checkpoint is required")
		}
	}

	beacon.metadata = p2p.NewMetadata(noopENRUpdater{})

	if err := beacon.writeEnrFile(); err != nil {
		return nil, err
	}
	if err := beacon.writePidFile(); err != nil {
		return nil, err
	}

	if err := beacon.registerSyncService(cliCtx, genesis, clock); err != nil {
		return nil, err
	}
	if err := beacon.registerPrometheusService(cliCtx); err != nil {
		return nil, err
	}

	return beacon, nil
}

func (b *BeaconNode) resolveGenesisAndClock(cliCtx *cli.Context) (*resolvedGenesis, *slotutil.BeaconClock, error) {
	cfg := &GenesisConfig{
		CheckpointStatePath: cliCtx.String(flags.FinalizedCheckpointState.Name),
		CheckpointBlockPath: cliCtx.String(flags.FinalizedCheckpointBlock.Name),
		Loader:              newFileCheckpointLoader(),
		NetworkProvider:     newStaticNetworkProvider(),
		NetworkName:         cliCtx.String(flags.Eth2NetworkFlag.Name),
		Eth1Monitor:         newNoopEth1Monitor(),
	}
	genesis, err := resolveGenesis(b.cliCtxContext(), cfg)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"source":      genesisSourceName(genesis.source),
		"genesisTime": genesis.state.GenesisTime,
	}).Info("Genesis resolved")
	return genesis, slotutil.NewBeaconClock(genesis.state.GenesisTime), nil
}

func (b *BeaconNode) cliCtxContext() context.Context {
	if b.cliCtx == nil || b.cliCtx.Context == nil {
		return context.Background()
	}
	return b.cliCtx.Context
}

func genesisSourceName(s GenesisSource) string {
	switch s {
	case GenesisSourceCheckpoint:
		return "finalized-checkpoint"
	case GenesisSourceBaked:
		return "baked-network"
	case GenesisSourceEth1:
		return "eth1-deposit-contract"
	default:
		return "unknown"
	}
}

func (b *BeaconNode) registerSyncService(cliCtx *cli.Context, genesis *resolvedGenesis, clock *slotutil.BeaconClock) error {
	processor := newChainProcessor(noopChainDAG{headSlot: genesis.block.Slot}, genesis.state.GenesisTime)
	syncMgr := newLocalSyncManager()
	cfg := &beaconsync.Config{
		Clock:       clock,
		Processor:   processor,
		Pubsub:      noopPubsub{},
		SyncManager: syncMgr,
		Fetcher:     noopBlockFetcher{},
		Metadata:    b.metadata,
		Validators:  newLocalValidatorPool(),
		Assigner:    modularSubnetAssigner{},
		StartSlot:   clock.SlotOrZero(),
		RequestGC:   cliCtx.Bool(flags.RequestSlotGC.Name),
	}
	svc := beaconsync.NewService(b.cliCtxContext(), cfg)
	return b.services.RegisterService(svc)
}

func (b *BeaconNode) registerPrometheusService(cliCtx *cli.Context) error {
	if cliCtx.Bool(cmd.DisableMonitoringFlag.Name) {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cliCtx.String(cmd.MonitoringHostFlag.Name), cliCtx.Int(cmd.MonitoringPortFlag.Name))
	svc := prometheus.NewPrometheusService(addr, b.services)
	return b.services.RegisterService(svc)
}

func handleClearDB(cliCtx *cli.Context, dataDir string) error {
	if !cliCtx.Bool(cmd.ForceClearDB.Name) && !cliCtx.Bool(cmd.ClearDB.Name) {
		return nil
	}
	if cliCtx.Bool(cmd.ClearDB.Name) && !cliCtx.Bool(cmd.ForceClearDB.Name) {
		fmt.Printf("This will delete all data stored at %s. Continue? [y/N] ", dataDir)
		var resp string
		if _, err := fmt.Scanln(&resp); err != nil && err.Error() != "unexpected newline" {
			return err
		}
		if resp != "y" && resp != "Y" {
			return nil
		}
	}
	return os.RemoveAll(dataDir)
}

func (b *BeaconNode) writeEnrFile() error {
	path := filepath.Join(b.dataDir, enrFileName)
	return fileutil.WriteFile(path, []byte(fmt.Sprintf("seq=%d\n", b.metadata.SeqNumber())))
}

func (b *BeaconNode) writePidFile() error {
	path := filepath.Join(b.dataDir, pidFileName)
	return fileutil.WriteFile(path, []byte(fmt.Sprintf("%d", os.Getpid())))
}

func (b *BeaconNode) removeLifecycleFiles() {
	for _, name := range []string{pidFileName, enrFileName} {
		path := filepath.Join(b.dataDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("file", path).Warn("Could not remove lifecycle file")
		}
	}
}

// Start launches every registered service and blocks until the process
// receives a shutdown signal or Close is called directly.
func (b *BeaconNode) Start() error {
	b.lock.Lock()
	log.WithField("version", version.GetVersion()).Info("Starting beacon node")
	status.Set(status.Running)
	b.services.StartAll()
	stop := b.stop
	b.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		status.Set(status.Stopping)
		go b.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.Infof("Already shutting down, interrupt %d more times to panic", i-1)
			}
		}
		debug.Exit()
		panic("Panic closing the beacon node")
	}()

	<-stop
	return nil
}

// Close stops every registered service in reverse registration order and
// removes the lifecycle files this node wrote at startup.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	log.Info("Stopping beacon node")
	b.services.StopAll()
	b.removeLifecycleFiles()
	close(b.stop)
}

// noopChainDAG is a placeholder ChainDAG used until genesis resolution is
// wired to a real fork-choice store; HeadSlot reports the resolved genesis
// block's slot and never advances on its own. The fork-choice DAG itself is
// an external collaborator outside this core's scope (spec §1).
type noopChainDAG struct {
	headSlot types.Slot
}

func (d noopChainDAG) PreInit(genesisState, tailState *GenesisState, tailBlock *GenesisBlock) error {
	return nil
}

func (d noopChainDAG) Init(verifyFinalization bool) error {
	return nil
}

func (d noopChainDAG) HeadSlot() types.Slot {
	return d.headSlot
}

func (d noopChainDAG) HeadState() *GenesisState {
	return nil
}
