package schedloop

// PID identifies a task within the live task set. It is never zero; zero is
// reserved as a "no task" sentinel return value from the add-family
// functions.
type PID uint16

// MaxTasks is the bounded capacity of the task store.
const MaxTasks = 124

// MaxWaitMs is the cap timeToNextTask() reports when no deadline is sooner.
const MaxWaitMs = 60000

// RemovalReason explains why a task was removed, for Observer.OnRemove.
type RemovalReason int

const (
	RemovalCompleted RemovalReason = iota
	RemovalTimeout
	RemovalExplicit
	RemovalStopped
)

func (r RemovalReason) String() string {
	switch r {
	case RemovalCompleted:
		return "completed"
	case RemovalTimeout:
		return "timeout"
	case RemovalExplicit:
		return "explicit"
	case RemovalStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// task is the internal record for a single deferred action. It mirrors the
// original Scheduler::Task struct field for field: an action, an optional
// timeout callback, the repeat/interval pair, a predicate and its two
// delays, and the executeAt sentinel.
type task struct {
	pid PID

	action      func()
	onTimeout   func(PID)

	repeat   bool
	interval uint32 // ms

	condition    func() bool
	conditionMet bool

	// conditionWait <= 0 means indefinite. Kept as int64 (rather than the
	// original's signed long) so millisecond inputs never overflow on
	// 32-bit builds while still preserving the "<=0 => indefinite" wart
	// spec.md §9 documents rather than redesigns away.
	conditionWait int64

	postConditionDelay uint32 // ms

	// executeAt == 0 means "not yet activated for the current phase".
	executeAt uint32
}

// indefinite reports whether the task waits forever for its predicate.
func (t *task) indefinite() bool {
	return t.conditionWait <= 0
}

// conditionTrue evaluates the predicate, treating a nil predicate (which
// should never survive past classification's defensive repair) as false so
// callers don't panic if it's ever reached before repair runs.
func (t *task) conditionTrue() bool {
	return t.condition != nil && t.condition()
}

// setExecutionTime assigns executeAt, remapping a literal zero to one so it
// never collides with the "uninitialised" sentinel.
func (t *task) setExecutionTime(ms uint32) {
	if ms == 0 {
		ms = 1
	}
	t.executeAt = ms
}
