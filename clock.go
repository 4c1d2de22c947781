package schedloop

// Clock is a monotonic millisecond time source. Implementations must return
// a value that wraps around uint32 boundaries (roughly every 49.7 days) the
// way a microcontroller's free-running millisecond timer does; the engine's
// arithmetic is wraparound-safe as long as no single delay or wait exceeds
// about 2^31 ms.
type Clock interface {
	NowMs() uint32
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() uint32

func (f ClockFunc) NowMs() uint32 { return f() }
