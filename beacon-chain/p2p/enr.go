package p2p

import (
	"crypto/sha256"
	"encoding/binary"
)

// ForkDigest is the 4-byte network identifier prefixed onto every gossip
// topic name; it binds a peer's messages to a specific (fork version,
// genesis validators root) pair so that nodes on different chains, or on
// different sides of a fork, never cross-talk.
type ForkDigest [4]byte

// ComputeForkDigest derives the digest from the current fork version and the
// genesis validators root, per the ForkData{current_version,
// genesis_validators_root} hash_tree_root construction.
func ComputeForkDigest(currentVersion [4]byte, genesisValidatorsRoot [32]byte) ForkDigest {
	// Both fields fit in one 32-byte chunk each, so the root is the SHA-256
	// of the zero-padded version chunk followed by the validators root.
	buf := make([]byte, 64)
	copy(buf[:32], currentVersion[:])
	copy(buf[32:], genesisValidatorsRoot[:])
	root := sha256.Sum256(buf)
	var digest ForkDigest
	copy(digest[:], root[:4])
	return digest
}

// ENRForkID is the SSZ-serialized payload carried in the ENR's "eth2" entry:
// the current fork digest plus the next scheduled fork, so peers can
// advertise upcoming fork readiness without a new handshake round-trip.
type ENRForkID struct {
	CurrentForkDigest ForkDigest
	NextForkVersion   [4]byte
	NextForkEpoch     uint64 // FAR_FUTURE_EPOCH when no fork is scheduled.
}

// Marshal renders the ENRForkID into the flat byte layout stored under the
// ENR's "eth2" key. This is a fixed-width encoding (not general SSZ) since
// ENRForkID has no variable-length fields.
func (f ENRForkID) Marshal() []byte {
	out := make([]byte, 0, 4+4+8)
	out = append(out, f.CurrentForkDigest[:]...)
	out = append(out, f.NextForkVersion[:]...)
	epochBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(epochBytes, f.NextForkEpoch)
	return append(out, epochBytes...)
}

// GossipTopicPrefix renders the "/<fork_digest>/" prefix every gossip topic
// name in this fork carries.
func (d ForkDigest) GossipTopicPrefix() string {
	return "/" + hexString(d[:]) + "/"
}

const hextable = "0123456789abcdef"

func hexString(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}
