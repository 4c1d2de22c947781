package schedloop

import (
	logx "schedloop/pkg/logx"
)

// alwaysTrue is the predicate used when a task has no real condition.
func alwaysTrue() bool { return true }

// AddTimedTask schedules action to run delayMs from now (activation
// happens on the scheduler's next safe evaluation, not necessarily this
// instant). If repeat is true, action fires again every interval ms after
// each completion, in parallel mode only.
//
// Returns 0 if the store is at capacity.
func (s *Scheduler) AddTimedTask(action func(), delayMs uint32, repeat bool, interval uint32) PID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if repeat && s.mode == Sequential {
		s.log.Warn("repeat not supported in sequential mode; forcing repeat=false")
		repeat = false
	}

	t := &task{
		action:             action,
		repeat:             repeat,
		interval:           interval,
		condition:          alwaysTrue,
		conditionWait:      0,
		postConditionDelay: delayMs,
	}
	return s.insertLocked(t)
}

// AddConditionalTask schedules action to run as soon as predicate becomes
// true. conditionWaitMs == 0 means wait indefinitely; otherwise the task is
// removed (and onTimeout, if non-nil, invoked) if predicate hasn't become
// true within conditionWaitMs of activation.
func (s *Scheduler) AddConditionalTask(action func(), predicate func() bool, conditionWaitMs uint32, onTimeout func(PID)) PID {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{
		action:             action,
		onTimeout:          onTimeout,
		condition:          predicate,
		conditionWait:      int64(conditionWaitMs),
		postConditionDelay: 0,
	}
	return s.insertLocked(t)
}

// AddConditionalTimedTask schedules action to run postDelayMs after
// predicate becomes true, subject to the same conditionWaitMs/onTimeout
// contract as AddConditionalTask.
func (s *Scheduler) AddConditionalTimedTask(action func(), predicate func() bool, postDelayMs, conditionWaitMs uint32, onTimeout func(PID)) PID {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{
		action:             action,
		onTimeout:          onTimeout,
		condition:          predicate,
		conditionWait:      int64(conditionWaitMs),
		postConditionDelay: postDelayMs,
	}
	return s.insertLocked(t)
}

// insertLocked allocates a PID, repairs a missing predicate, pushes the
// task, and reports capacity overflow. Call with s.mu held.
func (s *Scheduler) insertLocked(t *task) PID {
	if t.condition == nil {
		t.condition = alwaysTrue
	}
	if s.store.size() >= MaxTasks {
		if s.capacityWarn.Allow() {
			s.log.Warn("schedloop: add rejected, store at capacity", logx.Err(ErrCapacityExceeded), logx.Int("max_tasks", MaxTasks))
		}
		s.obs.capacityExceeded()
		return 0
	}
	pid := s.pids.allocate(s.store.has)
	t.pid = pid
	s.store.push(t)
	return pid
}

// RemoveTask schedules pid for removal at the next safe point and reports
// whether it was present at call time. Must be called from outside Loop —
// calling it from within an action is illegal per spec.md §4.5 and §5; if
// Loop is currently running this logs an error and no-ops.
func (s *Scheduler) RemoveTask(pid PID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inLoop {
		s.log.Error("schedloop: RemoveTask called while loop is running", logx.Err(ErrIllegalInLoop), logx.Uint16("pid", uint16(pid)))
		return false
	}

	exists := s.store.has(pid)
	if exists {
		s.ledger.mark(pid)
	} else {
		s.log.Debug("schedloop: RemoveTask on unknown pid", logx.Err(ErrNotFound), logx.Uint16("pid", uint16(pid)))
	}
	return exists
}

// SetRepeatingTaskInterval changes a repeating task's interval (and its
// postConditionDelay, since repeating parallel tasks reuse interval as the
// delay for every run after the first) and re-activates its phase. Refused
// while Loop is running, when the task doesn't exist, or when the task
// doesn't repeat.
func (s *Scheduler) SetRepeatingTaskInterval(pid PID, interval uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inLoop {
		s.log.Error("schedloop: SetRepeatingTaskInterval called while loop is running", logx.Err(ErrIllegalInLoop), logx.Uint16("pid", uint16(pid)))
		return false
	}

	t := s.store.findByPid(pid)
	if t == nil {
		s.log.Debug("schedloop: SetRepeatingTaskInterval on unknown pid", logx.Err(ErrNotFound), logx.Uint16("pid", uint16(pid)))
		return false
	}
	if !t.repeat {
		s.log.Debug("schedloop: SetRepeatingTaskInterval on non-repeating task", logx.Err(ErrNotRepeating), logx.Uint16("pid", uint16(pid)))
		return false
	}
	t.interval = interval
	t.postConditionDelay = interval
	t.executeAt = 0
	return true
}

// SetAndStartSequentialMode switches execution discipline. Switching into
// sequential mode anchors lastSequentialFinishTime at now, so the head
// task's activation (which is relative to that time, not to "now" at
// activation) starts counting immediately.
func (s *Scheduler) SetAndStartSequentialMode(seq bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq {
		s.mode = Sequential
		s.lastSequentialFinishMs = s.clock.NowMs()
	} else {
		s.mode = Parallel
	}
}

// Hold pauses Loop; it returns immediately on every call until Resume.
func (s *Scheduler) Hold() {
	s.mu.Lock()
	s.onHold = true
	s.mu.Unlock()
}

// Resume clears a prior Hold.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.onHold = false
	s.mu.Unlock()
}

// Stop cancels every task present at the time of the call. It only marks
// them; the removal takes effect at the next safe point of Loop (the
// dispatch pass, when called from an action, or the top of the next Loop
// otherwise). Tasks added after Stop — including by
// an action that is itself calling Stop — survive, since they aren't in the
// store yet when the PIDs are captured.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.willStop = true
	for _, pid := range s.store.pids() {
		s.ledger.mark(pid)
	}
}

// TimeToNextTask returns 0 if some task needs immediate activation or is
// already past due, otherwise the minimum positive remaining time across
// all tasks, capped at MaxWaitMs. With no tasks at all it returns
// MaxWaitMs, matching the original's "nothing to do, check back in a
// minute" contract.
func (s *Scheduler) TimeToNextTask() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.isEmpty() {
		return MaxWaitMs
	}

	now := s.clock.NowMs()
	best := uint32(MaxWaitMs)
	for _, t := range s.store.tasks {
		if t.executeAt == 0 {
			return 0
		}
		remaining := int32(t.executeAt - now)
		if remaining <= 0 {
			return 0
		}
		if uint32(remaining) < best {
			best = uint32(remaining)
		}
	}
	return best
}
