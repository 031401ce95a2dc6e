package ports

import "time"

// Clock abstracts wall time and sleeping so bulk-operation delays can run at
// near-zero speed in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
