package schedloop

import (
	"time"

	"github.com/robfig/cron/v3"
)

// ScheduledAction fires action once per day at a fixed offset from local
// midnight. Grounded on original_source/ScheduledAction.h: the hour/minute/
// second fields collapse to a single time.Duration offset, and the
// "already fired today" guard becomes the fired flag below, cleared when
// lastCheck/lastOffset show that a new day has started.
//
// Check is pure and non-blocking; the caller (typically cmd/schedloopd's
// driver loop, alongside Scheduler.Loop) is responsible for invoking it
// periodically.
type ScheduledAction struct {
	offset time.Duration
	action func()

	sched     cron.Schedule
	lastCheck time.Time

	lastOffset time.Duration
	fired      bool
}

// NewScheduledAction fires action once per day at hour:minute:second local
// time.
func NewScheduledAction(hour, minute, second int, action func()) *ScheduledAction {
	offset := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second
	return &ScheduledAction{offset: offset, action: action}
}

// NewCronScheduledAction fires action according to spec, a
// github.com/robfig/cron/v3 expression, instead of a fixed daily offset.
// spec is parsed with the standard five-field parser.
func NewCronScheduledAction(spec string, action func()) (*ScheduledAction, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &ScheduledAction{sched: sched, action: action}, nil
}

// Check evaluates now against the configured schedule, firing action at
// most once per occurrence, and reports whether it fired.
func (a *ScheduledAction) Check(now time.Time) bool {
	if a.sched != nil {
		return a.checkCron(now)
	}
	return a.checkDaily(now)
}

func (a *ScheduledAction) checkDaily(now time.Time) bool {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMidnight := now.Sub(midnight)

	// Midnight rollover: the previous check fell before today's midnight,
	// or today's offset is smaller than the last offset we saw, so a new
	// day has started.
	if a.lastCheck.Before(midnight) || sinceMidnight < a.lastOffset {
		a.fired = false
	}
	a.lastOffset = sinceMidnight
	a.lastCheck = now

	if !a.fired && sinceMidnight >= a.offset {
		a.fired = true
		if a.action != nil {
			a.action()
		}
		return true
	}
	return false
}

// checkCron fires once if at least one schedule occurrence falls in
// (lastCheck, now]; several occurrences in that window still produce a
// single run. On the very first call lastCheck is zero, so an
// occurrence at or before now is treated as "already covered" rather than
// firing a burst of catch-up runs.
func (a *ScheduledAction) checkCron(now time.Time) bool {
	if a.lastCheck.IsZero() {
		a.lastCheck = now
		return false
	}
	next := a.sched.Next(a.lastCheck)
	a.lastCheck = now
	if next.After(now) {
		return false
	}
	if a.action != nil {
		a.action()
	}
	return true
}

// Reset re-arms the action immediately, matching ScheduledAction::reset().
func (a *ScheduledAction) Reset() {
	a.fired = false
	a.lastOffset = 0
}

// HasFiredToday reports whether the action has already run for the current
// period.
func (a *ScheduledAction) HasFiredToday() bool { return a.fired }

// ScheduledActions is a flat collection of ScheduledAction driven together,
// mirroring original_source/ScheduledAction.h's ScheduledActions vector
// wrapper.
type ScheduledActions struct {
	actions []*ScheduledAction
}

func NewScheduledActions() *ScheduledActions { return &ScheduledActions{} }

func (s *ScheduledActions) Add(a *ScheduledAction) { s.actions = append(s.actions, a) }

func (s *ScheduledActions) Check(now time.Time) {
	for _, a := range s.actions {
		a.Check(now)
	}
}

func (s *ScheduledActions) Reset() {
	for _, a := range s.actions {
		a.Reset()
	}
}
