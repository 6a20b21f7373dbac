package sync

import (
	"testing"
	"time"
)

func rootFor(b byte) BlockRoot {
	var r BlockRoot
	r[0] = b
	return r
}

func TestQuarantine_CheckMissingDedupsParentRoots(t *testing.T) {
	q := NewQuarantine(32)
	now := time.Now()

	parent := rootFor(0xAA)
	q.Add(rootFor(1), 100, parent)
	q.Add(rootFor(2), 101, parent)

	missing := q.CheckMissing(now)
	if len(missing) != 1 {
		t.Fatalf("expected exactly one deduplicated missing root, got %d: %v", len(missing), missing)
	}
	if missing[0] != parent {
		t.Errorf("missing root = %v, want %v", missing[0], parent)
	}
}

func TestQuarantine_CheckMissingRespectsCooldown(t *testing.T) {
	q := NewQuarantine(32)
	now := time.Now()

	parent := rootFor(0xAA)
	q.Add(rootFor(1), 100, parent)

	first := q.CheckMissing(now)
	if len(first) != 1 {
		t.Fatalf("expected the first CheckMissing call to return the root, got %v", first)
	}

	second := q.CheckMissing(now.Add(1 * time.Second))
	if len(second) != 0 {
		t.Errorf("expected CheckMissing to suppress a re-request within the cooldown window, got %v", second)
	}

	third := q.CheckMissing(now.Add(requestCooldown + time.Second))
	if len(third) != 1 {
		t.Errorf("expected CheckMissing to re-request the root once the cooldown elapses, got %v", third)
	}
}

func TestQuarantine_ResolveRemovesRoot(t *testing.T) {
	q := NewQuarantine(32)
	root := rootFor(1)
	q.Add(root, 100, rootFor(0xAA))
	if q.Len() != 1 {
		t.Fatalf("expected Len() == 1 after Add, got %d", q.Len())
	}

	q.Resolve(root, 100)
	if q.Len() != 0 {
		t.Errorf("expected Len() == 0 after Resolve, got %d", q.Len())
	}
}

func TestQuarantine_PruneRemovesDescendantsPastFinalization(t *testing.T) {
	q := NewQuarantine(32)
	now := time.Now()

	// Three-generation chain: grandparent (slot 10, epoch 0) -> parent (slot
	// 40, epoch 1) -> child (slot 70, epoch 2). Finalizing epoch 1 should
	// prune the grandparent and, transitively, everything descended from it,
	// since none of it can ever become canonical.
	grandparent := rootFor(1)
	parent := rootFor(2)
	child := rootFor(3)

	q.Add(grandparent, 10, rootFor(0xAA))
	q.Add(parent, 40, grandparent)
	q.Add(child, 70, parent)

	q.SetFinalizedEpoch(1)
	missing := q.CheckMissing(now)

	if q.Len() != 0 {
		t.Errorf("expected every quarantined block descended from a pre-finalization slot to be pruned, got %d remaining", q.Len())
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing roots to be reported once the whole chain is pruned, got %v", missing)
	}
}

func TestQuarantine_PruneKeepsBlocksAfterFinalization(t *testing.T) {
	q := NewQuarantine(32)
	now := time.Now()

	stale := rootFor(1)
	fresh := rootFor(2)

	q.Add(stale, 10, rootFor(0xAA))  // epoch 0, will be pruned
	q.Add(fresh, 200, rootFor(0xBB)) // epoch 6, survives

	q.SetFinalizedEpoch(1)
	missing := q.CheckMissing(now)

	if q.Len() != 1 {
		t.Fatalf("expected exactly one surviving quarantined block, got %d", q.Len())
	}
	if len(missing) != 1 || missing[0] != rootFor(0xBB) {
		t.Errorf("expected the surviving block's parent root to be reported missing, got %v", missing)
	}
}
