package schedloop

import "testing"

func TestTriggeredActionFiresOnceUntilReset(t *testing.T) {
	t.Parallel()
	triggered := false
	reset := false
	notifyCount, resetCount := 0, 0

	a := NewTriggeredAction(
		func() bool { return triggered },
		func() bool { return reset },
		func() { notifyCount++ },
		func() { resetCount++ },
	)

	a.Check()
	if notifyCount != 0 {
		t.Fatalf("notifyCount = %d before trigger condition true, want 0", notifyCount)
	}

	triggered = true
	a.Check()
	if notifyCount != 1 {
		t.Fatalf("notifyCount = %d after trigger, want 1", notifyCount)
	}
	if !a.Triggered() {
		t.Fatal("Triggered() should be true after notify fired")
	}

	// Repeated checks while still triggered and not reset must not re-fire.
	a.Check()
	a.Check()
	if notifyCount != 1 {
		t.Fatalf("notifyCount = %d after repeated checks, want 1 (no re-fire)", notifyCount)
	}

	reset = true
	a.Check()
	if resetCount != 1 {
		t.Fatalf("resetCount = %d after reset condition true, want 1", resetCount)
	}
	if a.Triggered() {
		t.Fatal("Triggered() should be false after reset, ready to re-arm")
	}

	// Reset notification must not repeat while reset stays true.
	a.Check()
	if resetCount != 1 {
		t.Fatalf("resetCount = %d after repeated reset checks, want 1", resetCount)
	}
}

func TestTriggeredActionRearmsAfterReset(t *testing.T) {
	t.Parallel()
	triggered, reset := true, false
	notifyCount := 0

	a := NewTriggeredAction(
		func() bool { return triggered },
		func() bool { return reset },
		func() { notifyCount++ },
		nil,
	)

	a.Check() // fires
	reset = true
	a.Check() // resets, notifyReset is nil, no panic
	reset = false
	triggered = false
	a.Check() // no-op, trigger not true
	triggered = true
	a.Check() // fires again
	if notifyCount != 2 {
		t.Fatalf("notifyCount = %d after re-arm cycle, want 2", notifyCount)
	}
}

func TestTriggeredActionNilPredicatesNoop(t *testing.T) {
	t.Parallel()
	a := &TriggeredAction{}
	a.Check() // must not panic
	if a.Triggered() {
		t.Fatal("Triggered() should be false with no predicates configured")
	}
}
