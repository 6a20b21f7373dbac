package sync

import (
	"sort"
	"sync"
	"time"

	types "github.com/prysmaticlabs/eth2-types"
	"github.com/sirupsen/logrus"
)

// requestCooldown bounds how often the same missing root is re-requested;
// the second ticker polls once per second and without this a single root
// with no responding peer would be re-requested on every tick.
const requestCooldown = 6 * time.Second

// pendingBlock is a quarantined block: its root is known but its parent has
// not yet been seen, so it cannot be appended to the DAG.
type pendingBlock struct {
	root        BlockRoot
	slot        types.Slot
	parentRoot  BlockRoot
	lastRequest time.Time
}

// Quarantine is a holding area for blocks whose parents are unknown. It
// reports a deduplicated list of missing ancestor roots on demand; the
// SecondTicker polls this and hands the result to the RequestManager.
type Quarantine struct {
	mu                sync.RWMutex
	slotToPending     map[types.Slot]pendingBlock
	seenPending       map[BlockRoot]bool
	finalizedEpoch     types.Epoch
	slotsPerEpoch     types.Slot
}

// NewQuarantine constructs an empty quarantine.
func NewQuarantine(slotsPerEpoch types.Slot) *Quarantine {
	return &Quarantine{
		slotToPending: make(map[types.Slot]pendingBlock),
		seenPending:   make(map[BlockRoot]bool),
		slotsPerEpoch: slotsPerEpoch,
	}
}

// Add quarantines a block whose parent root is not yet resolvable.
func (q *Quarantine) Add(root BlockRoot, slot types.Slot, parentRoot BlockRoot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.slotToPending[slot] = pendingBlock{root: root, slot: slot, parentRoot: parentRoot}
	q.seenPending[root] = true
}

// Resolve removes a root from quarantine once its parent has arrived and it
// has been handed to the processor.
func (q *Quarantine) Resolve(root BlockRoot, slot types.Slot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.slotToPending, slot)
	delete(q.seenPending, root)
}

// SetFinalizedEpoch updates the finalized checkpoint used to prune
// quarantined blocks that can never become canonical.
func (q *Quarantine) SetFinalizedEpoch(epoch types.Epoch) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.finalizedEpoch = epoch
}

// CheckMissing returns the deduplicated, cooldown-filtered set of parent
// roots currently blocking quarantined blocks, pruning any blocks that are
// now older than the finalized checkpoint (and all of their descendants,
// since those can never become canonical either).
func (q *Quarantine) CheckMissing(now time.Time) []BlockRoot {
	q.mu.Lock()
	defer q.mu.Unlock()

	slots := make([]int, 0, len(q.slotToPending))
	for s := range q.slotToPending {
		epoch := types.Epoch(s / q.slotsPerEpoch)
		if q.finalizedEpoch > 0 && epoch <= q.finalizedEpoch {
			q.removeAllDescendants(s)
			continue
		}
		slots = append(slots, int(s))
	}
	sort.Ints(slots)

	missing := make([]BlockRoot, 0, len(slots))
	seen := make(map[BlockRoot]bool, len(slots))
	for _, si := range slots {
		s := types.Slot(si)
		b, ok := q.slotToPending[s]
		if !ok {
			continue
		}
		if now.Sub(b.lastRequest) < requestCooldown {
			continue
		}
		if seen[b.parentRoot] {
			continue
		}
		seen[b.parentRoot] = true
		missing = append(missing, b.parentRoot)
		b.lastRequest = now
		q.slotToPending[s] = b
	}
	return missing
}

// removeAllDescendants deletes slot and every pending block descended from
// it (transitively, via parentRoot chains). Caller must hold q.mu.
func (q *Quarantine) removeAllDescendants(slot types.Slot) {
	b, ok := q.slotToPending[slot]
	if !ok {
		return
	}
	stale := map[BlockRoot]bool{b.root: true}
	delete(q.slotToPending, slot)
	delete(q.seenPending, b.root)

	for {
		removedAny := false
		for s, pb := range q.slotToPending {
			if stale[pb.parentRoot] {
				stale[pb.root] = true
				delete(q.slotToPending, s)
				delete(q.seenPending, pb.root)
				removedAny = true
			}
		}
		if !removedAny {
			break
		}
	}
}

// Len reports the number of quarantined blocks, for metrics.
func (q *Quarantine) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.slotToPending)
}

var quarantineLog = logrus.WithField("prefix", "sync")
