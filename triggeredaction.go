package schedloop

// TriggeredAction is a hysteresis edge notifier: it fires notify once when
// triggerCondition first becomes true, then waits for resetCondition before
// it will fire again. Grounded on original_source/TriggeredAction.h, kept as
// a companion to Scheduler rather than folded into it since the original
// keeps the two concerns in separate classes with separate polling cadences.
type TriggeredAction struct {
	notified      bool
	resetNotified bool

	triggerCondition func() bool
	resetCondition   func() bool
	notify           func()
	notifyReset      func()
}

// NewTriggeredAction constructs a TriggeredAction. notifyReset may be nil if
// the reset edge needs no action.
func NewTriggeredAction(trigger, reset func() bool, notify, notifyReset func()) *TriggeredAction {
	return &TriggeredAction{
		triggerCondition: trigger,
		resetCondition:   reset,
		notify:           notify,
		notifyReset:      notifyReset,
	}
}

// Check evaluates the current edge and fires the appropriate callback at
// most once per edge. Call it periodically, e.g. from a scheduler's own
// AddTimedTask with repeat=true.
func (a *TriggeredAction) Check() {
	if a.triggerCondition == nil || a.resetCondition == nil {
		return
	}
	if !a.notified {
		if a.triggerCondition() {
			if a.notify != nil {
				a.notify()
			}
			a.notified = true
			a.resetNotified = false
		}
		return
	}
	if a.resetCondition() {
		if !a.resetNotified {
			if a.notifyReset != nil {
				a.notifyReset()
			}
			a.resetNotified = true
		}
		a.notified = false
	}
}

// Triggered reports whether the trigger edge has fired and not yet reset.
func (a *TriggeredAction) Triggered() bool { return a.notified }
