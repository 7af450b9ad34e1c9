package help

import "time"

// Timer is a cancellable one-shot timer.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

// Clock schedules session timeouts.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
