// Package scheduler runs the capped-framerate main loop.
//
// The loop is cooperative and single-threaded: every iteration checks the close request,
// then either sleeps a short fixed interval when the frame budget has not elapsed yet, or
// draws, presents and polls events exactly once. The sleep does not try to hit the budget
// precisely; the elapsed time is rechecked on the next iteration, so pacing is approximate.
package scheduler

import (
	"time"
)

const (
	// DefaultFrameBudget is the minimum time between two drawn frames (50 Hz).
	DefaultFrameBudget = 20 * time.Millisecond

	// DefaultSleepInterval is the cooperative sleep taken while the budget has not elapsed.
	DefaultSleepInterval = 3 * time.Millisecond
)

// State is the scheduler's lifecycle state.
type State int

const (
	// StateRunning means the loop keeps drawing frames.
	StateRunning State = iota

	// StateStopped is terminal: the surface reported a close request.
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// Frame is the work done for one drawn frame.
type Frame interface {
	// DrawFrame clears the frame and issues its draw calls.
	DrawFrame()

	// Present shows the finished frame.
	Present()
}

// Surface is the window side of the loop.
type Surface interface {
	// ShouldClose reports whether a close has been requested.
	ShouldClose() bool

	// PollEvents processes pending window and input events.
	PollEvents()
}

// scheduler is the implementation of the Scheduler interface.
type scheduler struct {
	frame   Frame
	surface Surface
	clock   Clock

	frameBudget   time.Duration
	sleepInterval time.Duration
	onFrame       func(now time.Time)

	lastFrame time.Time
	state     State
	frames    int
	ticks     int
}

// Scheduler paces a Frame against a Surface until the surface asks to close.
type Scheduler interface {
	// Tick runs one loop iteration. If the surface requests close the scheduler stops.
	// If less than the frame budget passed since the last drawn frame it sleeps the sleep
	// interval and returns without drawing or polling. Otherwise it resets the frame clock,
	// draws, presents and polls events.
	//
	// Returns:
	//   - bool: true if a frame was drawn
	Tick() bool

	// Run calls Tick until the scheduler stops.
	//
	// Returns:
	//   - int: the number of frames drawn during this call
	Run() int

	// State returns the current lifecycle state.
	State() State

	// FramesDrawn returns the total number of frames drawn.
	FramesDrawn() int

	// Ticks returns the total number of loop iterations that ran while running.
	Ticks() int
}

var _ Scheduler = &scheduler{}

// NewScheduler creates a scheduler with the given options applied. The frame clock starts
// at construction, so the first frame is drawn one budget later.
//
// Parameters:
//   - frame: the per-frame work
//   - surface: the close flag and event pump
//   - options: functional options to configure the scheduler
//
// Returns:
//   - Scheduler: the scheduler in StateRunning
func NewScheduler(frame Frame, surface Surface, options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{
		frame:         frame,
		surface:       surface,
		clock:         SystemClock(),
		frameBudget:   DefaultFrameBudget,
		sleepInterval: DefaultSleepInterval,
		state:         StateRunning,
	}
	for _, opt := range options {
		opt(s)
	}
	s.lastFrame = s.clock.Now()
	return s
}

func (s *scheduler) Tick() bool {
	if s.state == StateStopped {
		return false
	}
	if s.surface.ShouldClose() {
		s.state = StateStopped
		return false
	}
	s.ticks++

	now := s.clock.Now()
	if now.Sub(s.lastFrame) < s.frameBudget {
		s.clock.Sleep(s.sleepInterval)
		return false
	}
	s.lastFrame = now

	s.frame.DrawFrame()
	s.frame.Present()
	s.surface.PollEvents()
	s.frames++

	if s.onFrame != nil {
		s.onFrame(now)
	}
	return true
}

func (s *scheduler) Run() int {
	start := s.frames
	for s.state == StateRunning {
		s.Tick()
	}
	return s.frames - start
}

func (s *scheduler) State() State {
	return s.state
}

func (s *scheduler) FramesDrawn() int {
	return s.frames
}

func (s *scheduler) Ticks() int {
	return s.ticks
}
