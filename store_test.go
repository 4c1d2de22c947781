package schedloop

import "testing"

func TestTaskStorePushHasFind(t *testing.T) {
	t.Parallel()
	s := newTaskStore()
	t1 := &task{pid: 1}
	t2 := &task{pid: 2}
	if !s.push(t1) || !s.push(t2) {
		t.Fatal("push() failed under capacity")
	}
	if !s.has(1) || !s.has(2) {
		t.Fatal("has() missing pushed task")
	}
	if s.findByPid(3) != nil {
		t.Fatal("findByPid() found nonexistent PID")
	}
	if got := s.findByPid(2); got != t2 {
		t.Fatalf("findByPid(2) = %v, want %v", got, t2)
	}
}

func TestTaskStorePushRejectsAtCapacity(t *testing.T) {
	t.Parallel()
	s := newTaskStore()
	for i := 0; i < MaxTasks; i++ {
		if !s.push(&task{pid: PID(i + 1)}) {
			t.Fatalf("push() rejected before capacity, at %d", i)
		}
	}
	if s.push(&task{pid: PID(MaxTasks + 1)}) {
		t.Fatal("push() accepted a task past capacity")
	}
}

func TestTaskStoreErasePreservesOrder(t *testing.T) {
	t.Parallel()
	s := newTaskStore()
	s.push(&task{pid: 1})
	s.push(&task{pid: 2})
	s.push(&task{pid: 3})

	if !s.eraseByPid(2) {
		t.Fatal("eraseByPid() returned false for present PID")
	}
	if s.eraseByPid(2) {
		t.Fatal("eraseByPid() returned true for already-removed PID")
	}

	got := s.pids()
	want := []PID{1, 3}
	if len(got) != len(want) {
		t.Fatalf("pids() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pids() = %v, want %v", got, want)
		}
	}
}

func TestTaskStoreFrontRef(t *testing.T) {
	t.Parallel()
	s := newTaskStore()
	if s.frontRef() != nil {
		t.Fatal("frontRef() on empty store should be nil")
	}
	head := &task{pid: 5}
	s.push(head)
	s.push(&task{pid: 6})
	if s.frontRef() != head {
		t.Fatal("frontRef() did not return the first pushed task")
	}
}

func TestTaskStoreUpdateByPid(t *testing.T) {
	t.Parallel()
	s := newTaskStore()
	s.push(&task{pid: 1, repeat: false})

	if !s.updateByPid(&task{pid: 1, repeat: true}) {
		t.Fatal("updateByPid() returned false for present PID")
	}
	if !s.findByPid(1).repeat {
		t.Fatal("updateByPid() did not replace the stored task")
	}
	if s.updateByPid(&task{pid: 99}) {
		t.Fatal("updateByPid() returned true for absent PID")
	}
}

