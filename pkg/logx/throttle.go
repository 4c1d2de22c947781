package logx

import (
	"sync"

	"golang.org/x/time/rate"
)

// Throttle rate-limits a single recurring log line (e.g. "capacity
// exceeded", which would otherwise fire on every Loop tick while the store
// stays full). Grounded on pewbot/pkg/logx's use of golang.org/x/time/rate
// to bound its Telegram log sink.
type Throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewThrottle allows perSecond events per second on average, with bursts of
// up to burst events (at least 1).
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether the caller should emit the throttled line now.
func (t *Throttle) Allow() bool {
	if t == nil || t.limiter == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limiter.Allow()
}
