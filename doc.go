// Package schedloop implements a cooperative, time- and condition-driven
// task scheduler for a single-threaded event loop.
//
// The scheduler manages a bounded pool of deferred actions, each guarded by
// an optional predicate and two orthogonal delays: a predicate-satisfaction
// deadline (conditionWait) and a post-satisfaction delay
// (postConditionDelay). It is driven by repeated calls to Loop, which runs
// to completion without blocking and dispatches ready actions.
//
// Two execution disciplines are supported: parallel (many tasks progress
// concurrently against wall-clock time, with optional repetition) and
// sequential (strict FIFO: only the head task is considered).
//
// The scheduler itself spawns no goroutines and performs no I/O; it is safe
// to embed in a microcontroller-class event loop. A Mutex guards the task
// store, the removal ledger, and the control flags so that interrupt-style
// callers (e.g. a timer ISR invoking AddTimedTask) cannot race with Loop.
package schedloop
