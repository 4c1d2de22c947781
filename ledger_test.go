package schedloop

import "testing"

// TestRemovalLedgerMarkAndSnapshotDrain exercises the snapshot-then-erase-
// then-clear sequence engine.go's drainLedgerLocked actually performs — the
// ledger itself never touches the store directly.
func TestRemovalLedgerMarkAndSnapshotDrain(t *testing.T) {
	t.Parallel()
	l := newRemovalLedger()
	if !l.isEmpty() {
		t.Fatal("new ledger should be empty")
	}
	l.mark(1)
	l.mark(2)
	if l.isEmpty() {
		t.Fatal("ledger should not be empty after mark")
	}

	s := newTaskStore()
	s.push(&task{pid: 1})
	s.push(&task{pid: 2})
	s.push(&task{pid: 3})

	for _, pid := range l.snapshot() {
		s.eraseByPid(pid)
	}
	l.clear()

	if !l.isEmpty() {
		t.Fatal("clear() should clear the ledger")
	}
	if s.has(1) || s.has(2) {
		t.Fatal("erasing snapshot() PIDs left marked tasks in the store")
	}
	if !s.has(3) {
		t.Fatal("erasing snapshot() PIDs removed an unmarked task")
	}
}

func TestRemovalLedgerSnapshotDoesNotClear(t *testing.T) {
	t.Parallel()
	l := newRemovalLedger()
	l.mark(7)
	got := l.snapshot()
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("snapshot() = %v, want [7]", got)
	}
	if l.isEmpty() {
		t.Fatal("snapshot() should not clear the ledger")
	}
}

func TestRemovalLedgerToleratesMissingPID(t *testing.T) {
	t.Parallel()
	l := newRemovalLedger()
	l.mark(42)
	s := newTaskStore()
	for _, pid := range l.snapshot() {
		s.eraseByPid(pid) // no panic, no-op: pid isn't in the store
	}
	l.clear()
	if !l.isEmpty() {
		t.Fatal("clear() should clear the ledger even with nothing to erase")
	}
}
