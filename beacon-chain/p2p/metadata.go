// Package p2p models the small slice of peer-metadata bookkeeping the
// orchestration core owns directly: the advertised attestation/sync-committee
// subnet bitfields and the sequence number that accompanies them. The actual
// libp2p host, discv5 listener and gossip transport are external
// collaborators, reached only through the ENRUpdater interface below.
package p2p

import (
	"sync"

	"github.com/prysmaticlabs/go-bitfield"
	"github.com/harbor-labs/beacon-chain/beacon-chain/params"
)

// ENRUpdater is the boundary with the live libp2p/discv5 host: it owns the
// actual enode.LocalNode record and exposes just enough to let this package
// publish a new subnet bitfield without depending on the transport's types.
type ENRUpdater interface {
	SetAttSubnets(bits bitfield.Bitvector64)
	SetSyncSubnets(bits bitfield.Bitvector4)
}

// Metadata is the peer-metadata record this node advertises: the attestation
// and sync-committee subnet bitfields, plus the sequence number that MUST
// strictly increase on every change (spec Invariant B).
type Metadata struct {
	mu         sync.RWMutex
	seqNumber  uint64
	attnets    bitfield.Bitvector64
	syncnets   bitfield.Bitvector4
	enr        ENRUpdater
}

// NewMetadata constructs a zero-valued metadata record (no subnets
// advertised, seq number 0) wired to the live ENR updater.
func NewMetadata(enr ENRUpdater) *Metadata {
	return &Metadata{
		attnets:  bitfield.NewBitvector64(),
		syncnets: bitfield.Bitvector4{byte(0x00)},
		enr:      enr,
	}
}

// SeqNumber returns the currently advertised sequence number.
func (m *Metadata) SeqNumber() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seqNumber
}

// Attnets returns a copy of the currently advertised attestation bitfield.
func (m *Metadata) Attnets() bitfield.Bitvector64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(bitfield.Bitvector64, len(m.attnets))
	copy(out, m.attnets)
	return out
}

// IsAttSubnetActive reports whether subnet i is currently advertised.
func (m *Metadata) IsAttSubnetActive(i uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attnets.BitAt(i)
}

// SetAttSubnets replaces the advertised attestation bitfield, incrementing
// seqNumber iff the bitfield actually changed (spec Invariant B: seqNumber
// strictly increases only on real changes to the advertised bitfield).
func (m *Metadata) SetAttSubnets(bits bitfield.Bitvector64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bitvectorsEqual(m.attnets, bits) {
		return
	}
	m.attnets = bits
	m.seqNumber++
	if m.enr != nil {
		m.enr.SetAttSubnets(bits)
	}
}

// SetSyncSubnets replaces the advertised sync-committee bitfield with the
// same change-detection discipline as SetAttSubnets.
func (m *Metadata) SetSyncSubnets(bits bitfield.Bitvector4) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bitvectorsEqual(bitfield.Bitvector64(m.syncnets), bitfield.Bitvector64(bits)) {
		return
	}
	m.syncnets = bits
	m.seqNumber++
	if m.enr != nil {
		m.enr.SetSyncSubnets(bits)
	}
}

func bitvectorsEqual(a, b bitfield.Bitvector64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// AttestationBitvectorSize returns the byte length of an attestation
// subnet bitvector under the currently installed BeaconChainConfig.
func AttestationBitvectorSize() int {
	return determineSize(int(params.BeaconConfig().AttestationSubnetCount))
}

func determineSize(bitCount int) int {
	numOfBytes := bitCount / 8
	if bitCount%8 != 0 {
		numOfBytes++
	}
	return numOfBytes
}
