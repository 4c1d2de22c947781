package schedloop

import "sort"

// Loop is the scheduler's step function. The outer driver calls it
// repeatedly; it never blocks and always returns promptly, dispatching at
// most the tasks that are ready on this tick.
func (s *Scheduler) Loop() {
	s.mu.Lock()
	if s.store.isEmpty() || s.onHold {
		s.mu.Unlock()
		return
	}
	if s.willStop {
		s.willStop = false
		removed := s.drainLedgerLocked(RemovalStopped)
		s.mu.Unlock()
		s.fireRemovals(removed)
		return
	}
	var removed []removedTask
	if !s.ledger.isEmpty() {
		removed = s.drainLedgerLocked(RemovalExplicit)
	}

	s.inLoop = true
	now := s.clock.NowMs()
	mode := s.mode
	s.mu.Unlock()

	s.fireRemovals(removed)

	defer func() {
		s.mu.Lock()
		s.inLoop = false
		s.mu.Unlock()
	}()

	if mode == Sequential {
		s.loopSequential(now)
	} else {
		s.loopParallel(now)
	}
}

// removedTask pairs an erased PID with the reason it was erased, so Observer
// callbacks can be deferred until after s.mu is released.
type removedTask struct {
	pid    PID
	reason RemovalReason
}

// drainLedgerLocked erases every PID currently pending removal and reports
// each one's reason for the caller to hand to fireRemovals once s.mu is
// released. Call with s.mu held.
func (s *Scheduler) drainLedgerLocked(reason RemovalReason) []removedTask {
	var removed []removedTask
	for _, pid := range s.ledger.snapshot() {
		if s.store.eraseByPid(pid) {
			removed = append(removed, removedTask{pid, reason})
		}
	}
	s.ledger.clear()
	return removed
}

// fireRemovals invokes OnRemove for each entry. Call with s.mu released —
// Observer callbacks run like a dispatched action, never under the lock.
func (s *Scheduler) fireRemovals(removed []removedTask) {
	for _, r := range removed {
		s.obs.remove(r.pid, r.reason)
	}
}

// removalReasons tracks, for a single Loop tick, why each removed PID is
// being removed so Phase E can fire the right Observer callback and decide
// whether to invoke the task's own onTimeout.
type removalReasons struct {
	reason  map[PID]RemovalReason
	timeout map[PID]func(PID)
}

func newRemovalReasons() *removalReasons {
	return &removalReasons{reason: map[PID]RemovalReason{}, timeout: map[PID]func(PID){}}
}

func (r *removalReasons) setTimeout(pid PID, cb func(PID)) {
	r.reason[pid] = RemovalTimeout
	if cb != nil {
		r.timeout[pid] = cb
	}
}

func (r *removalReasons) setStopped(pid PID) {
	if _, ok := r.reason[pid]; !ok {
		r.reason[pid] = RemovalStopped
	}
}

func (r *removalReasons) reasonFor(pid PID) RemovalReason {
	if reason, ok := r.reason[pid]; ok {
		return reason
	}
	return RemovalCompleted
}

// loopParallel implements spec.md §4.6.1: activation, classification,
// dispatch, reconcile, commit.
func (s *Scheduler) loopParallel(now uint32) {
	reasons := newRemovalReasons()

	// Phase A: activation.
	var activatedPIDs []PID
	s.mu.Lock()
	for _, t := range s.store.tasks {
		if t.executeAt != 0 {
			continue
		}
		if t.indefinite() {
			if t.conditionTrue() {
				t.conditionMet = true
				t.setExecutionTime(now + t.postConditionDelay)
				activatedPIDs = append(activatedPIDs, t.pid)
			}
			// else: leave executeAt == 0, retried next tick.
		} else {
			t.setExecutionTime(now + uint32(t.conditionWait))
			activatedPIDs = append(activatedPIDs, t.pid)
		}
	}
	s.mu.Unlock()
	for _, pid := range activatedPIDs {
		s.obs.activate(pid)
	}

	// Phase B: classification.
	var execPIDs, removePIDs []PID
	s.mu.Lock()
	for _, t := range s.store.tasks {
		if t.condition == nil {
			t.condition = alwaysTrue
			s.log.Error("schedloop: task had nil predicate, repaired to always-true")
		}
		if !t.conditionMet {
			if t.conditionTrue() {
				t.conditionMet = true
				t.setExecutionTime(now + t.postConditionDelay)
			} else if !t.indefinite() && int32(now-t.executeAt) >= 0 {
				removePIDs = append(removePIDs, t.pid)
				reasons.setTimeout(t.pid, t.onTimeout)
			}
		} else if int32(now-t.executeAt) >= 0 {
			execPIDs = append(execPIDs, t.pid)
		}
	}
	s.mu.Unlock()

	// Phase C: dispatch. The lock is released around every action call.
	var dispatchedPIDs []PID
	stopped := false
	for _, pid := range execPIDs {
		s.mu.Lock()
		t := s.store.findByPid(pid)
		if t == nil {
			s.mu.Unlock()
			continue
		}
		action := t.action
		s.mu.Unlock()

		s.obs.dispatch(pid)
		if action != nil {
			action()
		}
		dispatchedPIDs = append(dispatchedPIDs, pid)

		s.mu.Lock()
		if s.willStop {
			s.willStop = false
			for _, ledgerPID := range s.ledger.snapshot() {
				if lt := s.store.findByPid(ledgerPID); lt != nil {
					lt.repeat = false
				}
				removePIDs = append(removePIDs, ledgerPID)
				reasons.setStopped(ledgerPID)
			}
			s.ledger.clear()
			stopped = true
		}
		s.mu.Unlock()

		if stopped {
			break
		}
	}

	// Phase D: reconcile dispatched tasks.
	s.mu.Lock()
	for _, pid := range dispatchedPIDs {
		t := s.store.findByPid(pid)
		if t == nil {
			continue
		}
		if t.repeat {
			t.conditionMet = false
			t.postConditionDelay = t.interval
			t.executeAt = 0
		} else {
			removePIDs = append(removePIDs, pid)
		}
	}
	s.mu.Unlock()

	// Phase E: commit removals.
	s.commitRemovals(removePIDs, reasons)
}

// commitRemovals sorts and de-duplicates removePIDs, erases each from the
// store, then — with the lock released, like every other Observer callback
// and action invocation — reports the Observer and fires any per-task
// onTimeout callbacks. OnTimeout fires for every PID removed for
// RemovalTimeout, whether or not that task was given its own onTimeout
// callback; the per-task callback is a separate, optional addition on top.
func (s *Scheduler) commitRemovals(removePIDs []PID, reasons *removalReasons) {
	if len(removePIDs) == 0 {
		return
	}
	sort.Slice(removePIDs, func(i, j int) bool { return removePIDs[i] < removePIDs[j] })
	unique := make([]PID, 0, len(removePIDs))
	for i, pid := range removePIDs {
		if i == 0 || pid != removePIDs[i-1] {
			unique = append(unique, pid)
		}
	}

	var erased []removedTask
	var timeoutFired []PID
	s.mu.Lock()
	for _, pid := range unique {
		if s.store.eraseByPid(pid) {
			reason := reasons.reasonFor(pid)
			erased = append(erased, removedTask{pid, reason})
			if reason == RemovalTimeout {
				timeoutFired = append(timeoutFired, pid)
			}
		}
	}
	s.mu.Unlock()

	s.fireRemovals(erased)
	for _, pid := range timeoutFired {
		s.obs.timeout(pid)
		if cb := reasons.timeout[pid]; cb != nil {
			cb(pid)
		}
	}
}
