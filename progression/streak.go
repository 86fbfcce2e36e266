package progression

import (
	"fmt"
	"time"
)

// StreakResult is the outcome of advancing a streak by one completion.
type StreakResult struct {
	NewStreak int  `json:"new_streak"`
	Continued bool `json:"continued"`
	Broken    bool `json:"broken"`
}

// DayOf truncates t to calendar-day granularity in its own location. The
// caller supplies timezone-normalized timestamps.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AdvanceStreak applies the calendar-day streak rules to a single completion.
// current is the user's streak count before this completion, lastActivity the
// last day a completion occurred (nil for a first-ever completion), today the
// day of this completion. Pure; the caller persists lastActivityDate = today
// afterwards.
func AdvanceStreak(current int, lastActivity *time.Time, today time.Time) (StreakResult, error) {
	todayDay := DayOf(today)

	if lastActivity == nil {
		return StreakResult{NewStreak: 1, Continued: true}, nil
	}

	lastDay := DayOf(*lastActivity)
	if todayDay.Before(lastDay) {
		return StreakResult{}, fmt.Errorf("%w: completion day %s precedes last activity %s",
			ErrInvalidTimestamp, todayDay.Format("2006-01-02"), lastDay.Format("2006-01-02"))
	}

	// Compare days structurally; elapsed hours between midnights vary under
	// DST so duration division miscounts around transitions.
	switch {
	case todayDay.Equal(lastDay):
		// Second completion of the same day never double-increments.
		return StreakResult{NewStreak: current, Continued: true}, nil
	case todayDay.Equal(lastDay.AddDate(0, 0, 1)):
		return StreakResult{NewStreak: current + 1, Continued: true}, nil
	default:
		return StreakResult{NewStreak: 1, Broken: true}, nil
	}
}
