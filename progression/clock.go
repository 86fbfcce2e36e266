package progression

import "time"

// Clock supplies the current time for streak-day comparisons and unlock
// timestamps. Injectable so the engine is testable at fixed dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
