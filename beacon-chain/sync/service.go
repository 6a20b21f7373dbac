package sync

import (
	"context"

	types "github.com/prysmaticlabs/eth2-types"
	bcparams "github.com/harbor-labs/beacon-chain/beacon-chain/params"
	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
	"github.com/harbor-labs/beacon-chain/beacon-chain/slotutil"
)

// Service wires together the orchestration core's concurrent subsystems —
// the slot scheduler, gossip gate, subnet manager, quarantine/request-
// manager backfill loop and message router — behind the node's shared.Service
// lifecycle contract. It is registered with the node's ServiceRegistry and
// started/stopped alongside the node's other registered services.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	clock     *slotutil.BeaconClock
	Router    *MessageRouter
	Quarantine *Quarantine
	requests  *RequestManager
	secondTicker *SecondTicker
	Subnets   *SubnetManager
	Gate      *GossipGate
	Scheduler *SlotScheduler

	startSlot types.Slot
	failure   error
}

// Config bundles Service's external collaborators; all fields are required
// except RequestGC.
type Config struct {
	Clock       *slotutil.BeaconClock
	Processor   Processor
	Pubsub      Pubsub
	SyncManager SyncManager
	Fetcher     BlockFetcher
	Metadata    *p2p.Metadata
	Validators  ValidatorPool
	Assigner    SubnetAssigner
	StartSlot   types.Slot
	RequestGC   bool
}

// NewService constructs Service from Config, wiring every internal
// component but not yet starting any goroutine (that happens in Start, per
// the shared.Service contract).
func NewService(ctx context.Context, cfg *Config) *Service {
	ctx, cancel := context.WithCancel(ctx)

	router := NewMessageRouter()
	quarantine := NewQuarantine(bcparams.BeaconConfig().SlotsPerEpoch)
	requests := NewRequestManager(cfg.Fetcher)
	secondTicker := NewSecondTicker(quarantine, requests, cfg.SyncManager)
	subnets := NewSubnetManager(cfg.Pubsub, router, cfg.Metadata, cfg.Validators, cfg.Assigner)
	gate := NewGossipGate(cfg.Pubsub, cfg.SyncManager, subnets, router)
	scheduler := NewSlotScheduler(cfg.Clock, cfg.Processor, gate, subnets, cfg.RequestGC)

	return &Service{
		ctx:          ctx,
		cancel:       cancel,
		clock:        cfg.Clock,
		Router:       router,
		Quarantine:   quarantine,
		requests:     requests,
		secondTicker: secondTicker,
		Subnets:      subnets,
		Gate:         gate,
		Scheduler:    scheduler,
		startSlot:    cfg.StartSlot,
	}
}

// Start launches the slot scheduler's event loop and the independent second
// ticker. Per shared.Service, it must not block.
func (s *Service) Start() {
	currentEpoch := types.Epoch(s.startSlot / bcparams.BeaconConfig().SlotsPerEpoch)
	if err := s.Subnets.InitialSubscribe(s.ctx, currentEpoch); err != nil {
		s.failure = err
		schedulerLog.WithError(err).Error("Could not perform initial attestation subnet subscription")
		return
	}

	go s.secondTicker.Run(s.ctx)
	go s.Scheduler.Run(s.ctx, s.startSlot)
}

// Stop cancels the context shared by every loop this service owns and waits
// for the second ticker to exit; the slot scheduler's loop has no blocking
// cleanup of its own beyond observing ctx.Done().
func (s *Service) Stop() error {
	s.cancel()
	s.secondTicker.Stop()
	return nil
}

// Status reports the last fatal error encountered during Start, if any.
func (s *Service) Status() error {
	return s.failure
}
