package schedloop

// loopSequential implements spec.md §4.6.2. Only the head of the store
// participates; the engine works on a local copy to avoid iterator
// invalidation if the action mutates the store.
func (s *Scheduler) loopSequential(now uint32) {
	s.mu.Lock()
	head := s.store.frontRef()
	if head == nil {
		s.mu.Unlock()
		return
	}
	t := *head
	s.mu.Unlock()

	headPID := t.pid
	changed := false

	// Activation: times are relative to the previous task's completion,
	// not to now — this is what distinguishes sequential from parallel.
	if t.executeAt == 0 {
		baseline := s.lastSequentialFinishLocked()
		if t.condition == nil {
			t.condition = alwaysTrue
			s.log.Error("schedloop: task had nil predicate, repaired to always-true")
		}
		if !t.indefinite() {
			t.setExecutionTime(baseline + uint32(t.conditionWait))
			s.obs.activate(t.pid)
			changed = true
		}
	}

	// Classification.
	var doRemove, doExecute bool
	var timeoutCB func(PID)
	if !t.conditionMet {
		if t.conditionTrue() {
			if t.executeAt == 0 {
				s.obs.activate(t.pid)
			}
			t.conditionMet = true
			t.setExecutionTime(now + t.postConditionDelay)
			changed = true
		} else if !t.indefinite() && int32(now-t.executeAt) >= 0 {
			doRemove = true
			timeoutCB = t.onTimeout
		}
	} else if int32(now-t.executeAt) >= 0 {
		doExecute = true
	}

	switch {
	case doRemove:
		s.mu.Lock()
		removed := s.store.eraseByPid(headPID)
		s.lastSequentialFinishMs = now
		s.mu.Unlock()
		if removed {
			s.obs.remove(headPID, RemovalTimeout)
			s.obs.timeout(headPID)
		}
		if timeoutCB != nil {
			timeoutCB(headPID)
		}
		return

	case doExecute:
		action := t.action
		s.obs.dispatch(headPID)
		if action != nil {
			action()
		}

		s.mu.Lock()
		if s.willStop {
			s.willStop = false
			var stoppedPIDs []PID
			for _, pid := range s.ledger.snapshot() {
				if pid == headPID {
					continue
				}
				if s.store.eraseByPid(pid) {
					stoppedPIDs = append(stoppedPIDs, pid)
				}
			}
			s.ledger.clear()
			s.store.eraseByPid(headPID)
			s.lastSequentialFinishMs = now
			s.mu.Unlock()
			for _, pid := range stoppedPIDs {
				s.obs.remove(pid, RemovalStopped)
			}
			s.obs.remove(headPID, RemovalStopped)
			return
		}
		// Sequential tasks never repeat; the head is always removed
		// once it runs.
		removed := s.store.eraseByPid(headPID)
		s.lastSequentialFinishMs = now
		s.mu.Unlock()
		if removed {
			s.obs.remove(headPID, RemovalCompleted)
		}
		return

	case changed:
		s.mu.Lock()
		s.store.updateByPid(&t)
		s.mu.Unlock()
		return

	default:
		return
	}
}

func (s *Scheduler) lastSequentialFinishLocked() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSequentialFinishMs
}
