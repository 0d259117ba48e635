package coordinator

import "time"

// TimerCallback runs on a tick. callCount is how many times it has already
// run; isAboutToFinish is true exactly once, on the timer's last invocation:
// the first tick after its timeout has elapsed. It returns whether the frame needs a repaint
// and whether the timer should stop.
type TimerCallback func(callCount int, isAboutToFinish bool) (update, terminate bool)

// Timer runs callback on every frame, or at most once per interval, and
// optionally stops itself once its timeout elapses — ported from
// azul-layout's timer_old.rs Timer/invoke_timer into a plain Go value type
// driven by the coordinator's frame loop instead of an extern "C" callback
// ABI.
type Timer struct {
	Callback TimerCallback

	created  time.Time
	lastRun  time.Time
	hasRun   bool
	runCount int

	Delay    time.Duration // zero means start immediately
	Interval time.Duration // zero means run every tick
	Timeout  time.Duration // zero means never times out
}

// NewTimer creates a timer anchored at now.
func NewTimer(now time.Time, cb TimerCallback) *Timer {
	return &Timer{Callback: cb, created: now}
}

// isAboutToFinish reports whether now is past the timer's created+Timeout
// deadline, per timer_old.rs's `is_about_to_finish`. It stays true for every
// later call; Tick forces termination the first time it is true, which is
// what makes the callback see it only once.
func (t *Timer) isAboutToFinish(now time.Time) bool {
	if t.Timeout == 0 {
		return false
	}
	return now.Sub(t.created) > t.Timeout
}

// Tick runs the timer's callback if it's due: the delay has elapsed and at
// least Interval has passed since the last run. It mirrors timer_old.rs's
// invoke_timer, including forcing termination once isAboutToFinish fires.
func (t *Timer) Tick(now time.Time) (update, terminate bool) {
	if now.Sub(t.created) < t.Delay {
		return false, false
	}
	if t.hasRun && t.Interval > 0 && now.Sub(t.lastRun) < t.Interval {
		return false, false
	}

	finishing := t.isAboutToFinish(now)
	update, terminate = t.Callback(t.runCount, finishing)
	if finishing {
		terminate = true
	}
	t.lastRun = now
	t.hasRun = true
	t.runCount++
	return update, terminate
}

// TimerManager owns the live timer set, per spec §5's "timers run on the
// main thread between frames" and "the runtime guarantees the
// is_about_to_finish flag fires exactly once on the last invocation."
type TimerManager struct {
	timers map[string]*Timer
}

// NewTimerManager creates an empty timer manager.
func NewTimerManager() *TimerManager {
	return &TimerManager{timers: make(map[string]*Timer)}
}

// Add registers a timer under id, replacing any existing timer with that
// id (a callback re-registering its own timer is idempotent).
func (tm *TimerManager) Add(id string, t *Timer) { tm.timers[id] = t }

// Remove cancels and forgets the timer under id.
func (tm *TimerManager) Remove(id string) { delete(tm.timers, id) }

// TickAll runs Tick on every live timer, removing any that terminate, and
// reports whether any timer requested a repaint this frame.
func (tm *TimerManager) TickAll(now time.Time) (needsRepaint bool) {
	for id, t := range tm.timers {
		update, terminate := t.Tick(now)
		if update {
			needsRepaint = true
		}
		if terminate {
			delete(tm.timers, id)
		}
	}
	return needsRepaint
}
