package schedloop

// Observer is a set of optional, synchronous callbacks invoked at the same
// points pewbot's task engine publishes lifecycle events onto its event
// bus. Every field may be nil. Callbacks run on the goroutine that called
// Loop, with the scheduler's lock released, exactly like a dispatched
// action — they must not block and must not call back into the Scheduler's
// control surface while inLoop (RemoveTask and SetRepeatingTaskInterval
// refuse while Loop is running).
//
// The core scheduler never imports an event-bus or logging package; a
// driver wires Observer callbacks onto whatever observability stack it
// wants (see internal/eventbus and internal/history for this module's own
// driver, cmd/schedloopd).
type Observer struct {
	// OnActivate fires when a task's executeAt is first set for its
	// current phase (indefinite predicate becoming true, or a finite
	// conditionWait deadline being armed).
	OnActivate func(pid PID)

	// OnDispatch fires immediately before a ready task's action is
	// invoked.
	OnDispatch func(pid PID)

	// OnTimeout fires when a conditional task's predicate did not become
	// true before its conditionWait deadline. It fires before the task's
	// own onTimeout callback (if any).
	OnTimeout func(pid PID)

	// OnRemove fires whenever a task leaves the store, for any reason.
	OnRemove func(pid PID, reason RemovalReason)

	// OnCapacityExceeded fires when an add-family call is rejected
	// because the store is at MaxTasks.
	OnCapacityExceeded func()
}

func (o *Observer) activate(pid PID) {
	if o != nil && o.OnActivate != nil {
		o.OnActivate(pid)
	}
}

func (o *Observer) dispatch(pid PID) {
	if o != nil && o.OnDispatch != nil {
		o.OnDispatch(pid)
	}
}

func (o *Observer) timeout(pid PID) {
	if o != nil && o.OnTimeout != nil {
		o.OnTimeout(pid)
	}
}

func (o *Observer) remove(pid PID, reason RemovalReason) {
	if o != nil && o.OnRemove != nil {
		o.OnRemove(pid, reason)
	}
}

func (o *Observer) capacityExceeded() {
	if o != nil && o.OnCapacityExceeded != nil {
		o.OnCapacityExceeded()
	}
}
