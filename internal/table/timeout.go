package table

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// timeoutManager schedules the auto-fold deadline for the to-act seat.
// At most one deadline is live at a time; arming replaces any pending
// ticket. Cancellation is advisory: a timer that already fired will still
// enqueue a TimeoutFired command, which the actor rejects as stale.
type timeoutManager struct {
	clock   quartz.Clock
	timeout time.Duration
	fire    func(seat, handNum int)

	mu    sync.Mutex
	timer *quartz.Timer
}

func newTimeoutManager(clock quartz.Clock, timeout time.Duration, fire func(seat, handNum int)) *timeoutManager {
	return &timeoutManager{clock: clock, timeout: timeout, fire: fire}
}

// arm schedules the deadline for a seat, replacing any pending ticket
func (tm *timeoutManager) arm(seat, handNum int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.timer != nil {
		tm.timer.Stop()
	}
	tm.timer = tm.clock.AfterFunc(tm.timeout, func() {
		tm.fire(seat, handNum)
	})
}

// cancel stops the pending deadline, if any
func (tm *timeoutManager) cancel() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.timer != nil {
		tm.timer.Stop()
		tm.timer = nil
	}
}
