package schedloop

import (
	"sync"

	logx "schedloop/pkg/logx"
)

// Mode selects the scheduler's execution discipline.
type Mode int

const (
	// Parallel progresses every task concurrently against wall-clock
	// time and supports repetition.
	Parallel Mode = iota
	// Sequential dispatches strictly one task at a time, in FIFO
	// insertion order, with times relative to the previous task's
	// completion rather than to now.
	Sequential
)

// Scheduler is the cooperative task scheduler core described by this
// module. Zero value is not usable; construct with New.
type Scheduler struct {
	mu sync.Mutex

	clock Clock
	log   logx.Logger
	obs   *Observer

	store  *taskStore
	ledger *removalLedger
	pids   *pidAllocator

	mode                    Mode
	onHold                  bool
	willStop                bool
	inLoop                  bool
	lastSequentialFinishMs  uint32

	capacityWarn *logx.Throttle
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger installs a logger used for warnings/errors described in
// spec.md §6 ("Logging sink"). The zero Logger is a safe no-op default.
func WithLogger(log logx.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithObserver installs lifecycle callbacks (see Observer).
func WithObserver(obs *Observer) Option {
	return func(s *Scheduler) { s.obs = obs }
}

// WithMode sets the initial execution discipline (default Parallel).
func WithMode(m Mode) Option {
	return func(s *Scheduler) { s.mode = m }
}

// New constructs a Scheduler driven by clock.
func New(clock Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:        clock,
		log:          logx.Nop(),
		store:        newTaskStore(),
		ledger:       newRemovalLedger(),
		pids:         newPIDAllocator(),
		capacityWarn: logx.NewThrottle(1, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskCount returns the number of tasks currently live in the store.
func (s *Scheduler) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.size()
}

// IsSequentialMode reports the current execution discipline.
func (s *Scheduler) IsSequentialMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == Sequential
}
