package scheduler

import "time"

// SchedulerBuilderOption is a functional option for configuring a Scheduler via NewScheduler.
type SchedulerBuilderOption func(*scheduler)

// WithClock replaces the system clock.
//
// Parameters:
//   - clock: the time source
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithClock(clock Clock) SchedulerBuilderOption {
	return func(s *scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithFrameRate sets the frame budget from a target rate in frames per second.
// Values <= 0 keep the default of 50.
//
// Parameters:
//   - fps: the maximum drawn frames per second
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithFrameRate(fps float64) SchedulerBuilderOption {
	return func(s *scheduler) {
		if fps <= 0 {
			return
		}
		s.frameBudget = time.Duration(float64(time.Second) / fps)
	}
}

// WithSleepInterval sets how long the loop yields while waiting for the frame budget.
//
// Parameters:
//   - d: the sleep duration, ignored if <= 0
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithSleepInterval(d time.Duration) SchedulerBuilderOption {
	return func(s *scheduler) {
		if d > 0 {
			s.sleepInterval = d
		}
	}
}

// WithFrameCallback registers a function called after every drawn frame with the time the
// frame was started. Used for profiling.
//
// Parameters:
//   - callback: the function to call
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithFrameCallback(callback func(now time.Time)) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.onFrame = callback
	}
}
