package sync

import (
	types "github.com/prysmaticlabs/eth2-types"
)

// BlockRoot identifies a block by its hash-tree-root. The block bytes
// themselves are never carried by this package: everything downstream of
// "found a missing root" is handed off to the RequestManager and, on
// completion, to the processor's block queue.
type BlockRoot [32]byte

// ValidationResult is the verdict a MessageRouter validator hands back to
// the gossip substrate synchronously, mirroring libp2p-pubsub's
// ValidationResult without importing its package into this orchestration
// core (the transport is an external collaborator, see Pubsub).
type ValidationResult int

const (
	// ValidationAccept propagates the message and hands it to the processor.
	ValidationAccept ValidationResult = iota
	// ValidationReject drops the message and penalizes its sender.
	ValidationReject
	// ValidationIgnore drops the message without penalizing its sender.
	ValidationIgnore
)

func (v ValidationResult) String() string {
	switch v {
	case ValidationAccept:
		return "accept"
	case ValidationReject:
		return "reject"
	case ValidationIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// GossipMessage is the minimal envelope the MessageRouter inspects: a raw
// payload plus the topic it arrived on. Decoding into a concrete consensus
// type (beacon block, attestation, ...) is the processor's job.
type GossipMessage struct {
	Topic   string
	Data    []byte
	FromSelf bool
}

// SubnetDiff is the result of computing which attestation subnets a node
// should be on for a given epoch, relative to its prior SubnetState.
type SubnetDiff struct {
	Expiring    []uint64 // subnets to unsubscribe from
	NewlyJoined []uint64 // subnets to subscribe to
}

// Slot and Epoch are re-exported for package callers that only import sync.
type (
	Slot  = types.Slot
	Epoch = types.Epoch
)
