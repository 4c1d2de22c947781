package schedloop

import "testing"

func TestSequentialModeRunsInFIFOOrder(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{}
	s := New(clk)
	s.SetAndStartSequentialMode(true)

	var order []int
	s.AddTimedTask(func() { order = append(order, 1) }, 100, false, 0)
	s.AddTimedTask(func() { order = append(order, 2) }, 100, false, 0)
	s.AddTimedTask(func() { order = append(order, 3) }, 100, false, 0)

	// Each task's delay is relative to the previous task's completion, not
	// to wall-clock "now" at add time, so three ticks of 100ms each drain
	// the whole queue in insertion order.
	for i := 0; i < 3; i++ {
		s.Loop() // head's predicate holds: executeAt = now + 100
		clk.advance(100)
		s.Loop() // dispatch
	}

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if s.TaskCount() != 0 {
		t.Fatalf("TaskCount() = %d after draining the queue, want 0", s.TaskCount())
	}
}

func TestSequentialModeDoesNotRepeat(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{}
	s := New(clk)
	s.SetAndStartSequentialMode(true)

	fired := 0
	s.AddTimedTask(func() { fired++ }, 50, true, 200)

	s.Loop()
	clk.advance(50)
	s.Loop()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if s.TaskCount() != 0 {
		t.Fatal("sequential tasks must not repeat regardless of the repeat flag")
	}
}

func TestSequentialModeConditionalTimeout(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{}
	s := New(clk)
	s.SetAndStartSequentialMode(true)

	ran, timedOut := false, false
	s.AddConditionalTask(
		func() { ran = true },
		func() bool { return false },
		100,
		func(PID) { timedOut = true },
	)

	s.Loop()
	clk.advance(150)
	s.Loop()

	if ran {
		t.Fatal("action ran despite predicate never becoming true")
	}
	if !timedOut {
		t.Fatal("onTimeout was not invoked")
	}
}

func TestSequentialModeStopFromWithinAction(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{}
	s := New(clk)
	s.SetAndStartSequentialMode(true)

	secondRan := false
	s.AddTimedTask(func() { s.Stop() }, 0, false, 0)
	s.AddTimedTask(func() { secondRan = true }, 0, false, 0)

	s.Loop()
	clk.advance(1)
	s.Loop() // head fires and stops everything
	clk.advance(1)
	s.Loop()

	if secondRan {
		t.Fatal("second task should have been cancelled by Stop")
	}
	if s.TaskCount() != 0 {
		t.Fatalf("TaskCount() = %d after Stop, want 0", s.TaskCount())
	}
}
