package schedloop

import "errors"

// Sentinel errors used internally for logging call sites. The public
// control surface reports outcomes with booleans and zero-PID sentinels per
// the spec; these are wrapped into the log lines the control surface emits
// for the same failures (capacity, in-loop mutation, unknown PID,
// non-repeating task).
var (
	ErrCapacityExceeded = errors.New("schedloop: capacity exceeded")
	ErrIllegalInLoop    = errors.New("schedloop: mutation not allowed while loop is running")
	ErrNotFound         = errors.New("schedloop: task not found")
	ErrNotRepeating     = errors.New("schedloop: task does not repeat")
)
