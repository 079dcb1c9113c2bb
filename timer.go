package hertra

import "time"

// Timer is a stopwatch. The zero value is stopped at zero.
type Timer struct {
	now     func() time.Time
	start   time.Time
	elapsed time.Duration
	running bool
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

func (t *Timer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

func (t *Timer) Start() {
	if t.running {
		return
	}
	t.start = t.clock()
	t.running = true
}

// Stop freezes the elapsed time until the next Start.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed += t.clock().Sub(t.start)
	t.running = false
}

// Reset zeroes the elapsed time and keeps the timer running if it was.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.start = t.clock()
}

func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.elapsed + t.clock().Sub(t.start)
	}
	return t.elapsed
}

func (t *Timer) ElapsedSeconds() float64      { return t.Elapsed().Seconds() }
func (t *Timer) ElapsedMilliseconds() float64 { return float64(t.Elapsed()) / float64(time.Millisecond) }
