package core

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock supplies the time source used for timestamps and quiescence timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
