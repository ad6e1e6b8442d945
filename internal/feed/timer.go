package feed

import (
	"sync"
	"time"
)

// retryTask owns at most one pending deferred call. Scheduling again
// replaces the prior timer, so "cancel before reschedule" is a single
// owned resource rather than an implicit closure capture.
type retryTask struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms the task to run fn after d, replacing any pending run.
func (t *retryTask) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fn)
}

// Cancel stops any pending run. Safe to call when nothing is scheduled.
func (t *retryTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
