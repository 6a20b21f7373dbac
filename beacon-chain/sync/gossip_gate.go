package sync

import (
	"context"
	"strconv"

	types "github.com/prysmaticlabs/eth2-types"
	"golang.org/x/sync/errgroup"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
)

// coreTopics are the gossip topics always on/off together with the gate,
// independent of any dynamic subnet rotation (spec §4.4).
var coreTopics = []string{
	"beacon_block",
	"attester_slashing",
	"proposer_slashing",
	"voluntary_exit",
	"beacon_aggregate_and_proof",
}

// GossipGate enables or disables the full set of gossip topic subscriptions
// based on sync-queue depth, with hysteresis so it doesn't chatter near the
// threshold. Transitions are strictly serialized by the SlotScheduler; this
// type holds no lock of its own (spec §5 ordering guarantees).
type GossipGate struct {
	enabled     bool
	pubsub      Pubsub
	syncManager SyncManager
	subnets     *SubnetManager
	router      *MessageRouter
}

// NewGossipGate constructs a disabled gate; Evaluate must be called at least
// once (from the scheduler) before any topic is subscribed.
func NewGossipGate(pubsub Pubsub, syncManager SyncManager, subnets *SubnetManager, router *MessageRouter) *GossipGate {
	return &GossipGate{
		pubsub:      pubsub,
		syncManager: syncManager,
		subnets:     subnets,
		router:      router,
	}
}

// Enabled reports whether gossip participation is currently on.
func (g *GossipGate) Enabled() bool {
	return g.enabled
}

// Evaluate applies the transition table at the end of a slot tick (spec
// §4.4). currentSlot is the wall slot just processed, used for the
// queue-underflow upper guard.
func (g *GossipGate) Evaluate(ctx context.Context, currentSlot types.Slot) error {
	net := params.BeaconNetworkConfig()
	queueLen := g.syncManager.SyncQueueLen()

	switch {
	case !g.enabled && queueLen < net.SubscribeThresholdSlots:
		if err := g.addMessageHandlers(ctx); err != nil {
			return err
		}
		g.enabled = true
	case g.enabled &&
		queueLen > net.SubscribeThresholdSlots+net.Hysteresis &&
		queueLen < 2*uint64(currentSlot):
		if err := g.removeMessageHandlers(ctx); err != nil {
			return err
		}
		g.enabled = false
	}
	return nil
}

// addMessageHandlers subscribes the always-on topics plus the
// SubnetManager's initial attestation subnets, in parallel, awaiting all
// (spec §4.4, the "join_all" suspension point of spec §5).
func (g *GossipGate) addMessageHandlers(ctx context.Context) error {
	topics := append([]string{}, coreTopics...)
	for _, idx := range g.subnets.InitialSubnets() {
		topics = append(topics, attestationSubnetTopic(idx))
	}

	grp, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		topic := topic
		grp.Go(func() error {
			_, err := g.pubsub.Subscribe(gctx, topic, g.router.ValidatorFor(topic))
			return err
		})
	}
	return grp.Wait()
}

// removeMessageHandlers performs the inverse of addMessageHandlers and
// additionally clears both subnet rotation buckets (spec §4.4, Testable
// Property 5).
func (g *GossipGate) removeMessageHandlers(ctx context.Context) error {
	topics := append([]string{}, coreTopics...)
	for _, idx := range g.subnets.ActiveSubnets() {
		topics = append(topics, attestationSubnetTopic(idx))
	}

	grp, _ := errgroup.WithContext(ctx)
	for _, topic := range topics {
		topic := topic
		grp.Go(func() error {
			return g.pubsub.Unsubscribe(topic)
		})
	}
	err := grp.Wait()
	g.subnets.ClearRotationBuckets()
	return err
}

func attestationSubnetTopic(idx uint64) string {
	return "beacon_attestation_" + strconv.FormatUint(idx, 10)
}
