package schedloop

// pidAllocator hands out monotonically increasing, nonzero PIDs, wrapping
// uint16 back to 1 (never 0) and skipping any value already present in the
// supplied store. It never fails: callers that need to bound the number of
// live tasks do so at the store, not here.
type pidAllocator struct {
	next PID
}

func newPIDAllocator() *pidAllocator {
	return &pidAllocator{next: 1}
}

// allocate returns a fresh PID for which inUse(pid) is false. The
// allocator's counter is advanced once for each candidate inUse reports as
// taken, plus once for the one it finally returns.
func (a *pidAllocator) allocate(inUse func(PID) bool) PID {
	if a.next == 0 {
		a.next = 1
	}
	for inUse != nil && inUse(a.next) {
		a.next++
		if a.next == 0 {
			a.next = 1
		}
	}
	pid := a.next
	a.next++
	if a.next == 0 {
		a.next = 1
	}
	return pid
}
