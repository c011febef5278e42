package engine

import "time"

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay on another goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Realtime schedules on the wall clock.
var Realtime Scheduler = clockScheduler{}
