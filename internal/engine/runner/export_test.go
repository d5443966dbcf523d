package runner

import "time"

// SetClock replaces the clock used for durations and record timestamps.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}
