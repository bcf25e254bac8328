package virtual

// FrameQueue is a single-slot Scheduler for hosts that pump frames
// themselves, such as a terminal program reacting to tick messages or a
// headless simulation. Scheduling replaces whatever callback is pending.
type FrameQueue struct {
	pending   func()
	scheduled int
}

var _ Scheduler = (*FrameQueue)(nil)

// ScheduleOnce implements Scheduler.
func (q *FrameQueue) ScheduleOnce(fn func()) {
	q.pending = fn
	q.scheduled++
}

// Cancel implements Scheduler.
func (q *FrameQueue) Cancel() {
	q.pending = nil
}

// Pending reports whether a callback is waiting for the next frame.
func (q *FrameQueue) Pending() bool {
	return q.pending != nil
}

// Scheduled returns how many times a callback was scheduled.
func (q *FrameQueue) Scheduled() int {
	return q.scheduled
}

// Flush runs the pending callback, if any, and reports whether one ran.
func (q *FrameQueue) Flush() bool {
	fn := q.pending
	q.pending = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}
