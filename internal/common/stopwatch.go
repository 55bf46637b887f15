package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
	Running   bool
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{timeout, time.Time{}, false}
}

func (s *Stopwatch) Start() {
	s.Running = true
	s.startTime = time.Now()
}

func (s *Stopwatch) Stop() {
	s.Running = false
}

// Time at which the stopwatch was last started
func (s *Stopwatch) StartTime() time.Time {
	return s.startTime
}

// Time elapsed since the stopwatch was last started.
// Zero if it is not running
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.Running {
		return 0
	}
	return time.Since(s.startTime)
}

// Return the time elapsed since this stopwatch
// stopped (reached its timeout).
// Note that if the number is negative, the timeout still
// has not been reached
func (s *Stopwatch) TimeStopped() time.Duration {
	currentTime := time.Now()
	return currentTime.Sub(s.startTime.Add(s.Timeout))
}

// Report whether the timeout has been reached, together with
// the time still remaining when it has not.
// A stopwatch that is not running is always stopped
func (s *Stopwatch) Stopped() (bool, time.Duration) {
	if !s.Running {
		return true, 0
	}
	remaining := -s.TimeStopped()
	if remaining <= 0 {
		s.Running = false
		return true, 0
	}
	return false, remaining
}
