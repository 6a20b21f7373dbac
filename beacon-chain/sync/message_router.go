package sync

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messageReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p2p_message_received_total",
			Help: "Count of gossip messages received, by topic.",
		},
		[]string{"topic"},
	)
	messageFailedValidationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "p2p_message_failed_validation_total",
			Help: "Count of gossip messages that failed validation, by topic.",
		},
		[]string{"topic"},
	)
)

// Handler decodes and processes a validated gossip message. It is owned by
// the processor (an external collaborator); MessageRouter only calls it.
type Handler func(ctx context.Context, msg *GossipMessage) error

// topicRoute pairs a validator with the handler invoked once that validator
// accepts a message.
type topicRoute struct {
	validate func(ctx context.Context, msg *GossipMessage) ValidationResult
	handle   Handler
}

// MessageRouter installs one gossip validator per topic that forwards
// accepted payloads to the processor. The installed set persists across
// gossip enable/disable cycles (spec §4.8): GossipGate only
// subscribes/unsubscribes the pubsub layer, it never touches this registry.
type MessageRouter struct {
	mu     sync.RWMutex
	routes map[string]topicRoute
}

// NewMessageRouter constructs an empty router.
func NewMessageRouter() *MessageRouter {
	return &MessageRouter{routes: make(map[string]topicRoute)}
}

// Install registers a validator+handler pair for an exact topic name (no
// subnet suffix). For dynamic per-subnet topics use InstallSubnetRoute.
func (r *MessageRouter) Install(topic string, validate func(ctx context.Context, msg *GossipMessage) ValidationResult, handle Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[topic] = topicRoute{validate: validate, handle: handle}
}

// InstallSubnetRoute registers a validator+handler pair shared by every
// attestation subnet topic; ValidatorFor matches any topic that starts with
// prefix, provided prefix ends in "_". The subnet index is not parsed out of
// the topic name for the validator.
func (r *MessageRouter) InstallSubnetRoute(prefix string, validate func(ctx context.Context, msg *GossipMessage) ValidationResult, handle Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[prefix] = topicRoute{validate: validate, handle: handle}
}

// ValidatorFor returns the TopicValidator the Pubsub transport should
// invoke synchronously for the given topic, wrapped with metrics (grounded
// on the teacher's wrapAndReportValidation).
func (r *MessageRouter) ValidatorFor(topic string) TopicValidator {
	return func(ctx context.Context, msg *GossipMessage) ValidationResult {
		messageReceivedCounter.WithLabelValues(topic).Inc()
		route, ok := r.lookup(topic)
		if !ok {
			messageFailedValidationCounter.WithLabelValues(topic).Inc()
			return ValidationIgnore
		}
		result := route.validate(ctx, msg)
		if result != ValidationAccept {
			messageFailedValidationCounter.WithLabelValues(topic).Inc()
			return result
		}
		if route.handle != nil {
			if err := route.handle(ctx, msg); err != nil {
				return ValidationIgnore
			}
		}
		return ValidationAccept
	}
}

func (r *MessageRouter) lookup(topic string) (topicRoute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if route, ok := r.routes[topic]; ok {
		return route, true
	}
	// Attestation subnet topics are registered under their shared prefix;
	// match e.g. "beacon_attestation_17" against "beacon_attestation_".
	for prefix, route := range r.routes {
		if strings.HasPrefix(topic, prefix) && strings.HasSuffix(prefix, "_") {
			return route, true
		}
	}
	return topicRoute{}, false
}
