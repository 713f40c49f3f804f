package scheduler

import "time"

// Clock is the time source the scheduler paces against. Tests substitute a manual clock.
type Clock interface {
	// Now returns the current monotonic time.
	Now() time.Time

	// Sleep suspends the calling goroutine for about d.
	Sleep(d time.Duration)
}

type systemClock struct{}

// SystemClock returns the wall clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
