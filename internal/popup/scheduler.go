package popup

import "time"

// Scheduler defers a callback by a fixed delay on behalf of the controller.
// The default implementation uses the process timer; tests substitute a fake
// to observe scheduled work without waiting.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// timerScheduler schedules via time.AfterFunc.
type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
