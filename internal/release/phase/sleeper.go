package phase

import (
	"context"
	"time"
)

// Sleeper suspends a phase before it labels the repository.
type Sleeper interface {
	Sleep(executionContext context.Context, duration time.Duration)
}

// TimerSleeper waits on a timer. Cancelling the context ends the wait early.
type TimerSleeper struct{}

// Sleep blocks until the duration elapses or the context is done.
func (TimerSleeper) Sleep(executionContext context.Context, duration time.Duration) {
	if duration <= 0 {
		return
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-executionContext.Done():
	case <-timer.C:
	}
}
