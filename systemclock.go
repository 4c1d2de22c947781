package schedloop

import "time"

// SystemClock adapts the process's monotonic clock (time.Since from an
// arbitrary epoch) to the uint32-millisecond Clock contract. It is the
// Clock implementation cmd/schedloopd uses; tests use a fake clock so that
// wraparound and deadline arithmetic can be driven deterministically.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock returns a SystemClock anchored to the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

func (c *SystemClock) NowMs() uint32 {
	return uint32(time.Since(c.epoch).Milliseconds())
}
