package progression

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak_FirstCompletion(t *testing.T) {
	result, err := AdvanceStreak(0, nil, day(2025, time.March, 10))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 1 || !result.Continued || result.Broken {
		t.Errorf("first completion = %+v, want streak 1, continued, not broken", result)
	}
}

func TestAdvanceStreak_SameDay(t *testing.T) {
	last := day(2025, time.March, 10)
	result, err := AdvanceStreak(4, &last, day(2025, time.March, 10))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 4 {
		t.Errorf("same-day streak = %d, want 4 (no double-increment)", result.NewStreak)
	}
	if !result.Continued || result.Broken {
		t.Errorf("same-day flags = %+v, want continued and not broken", result)
	}
}

func TestAdvanceStreak_NextDay(t *testing.T) {
	last := day(2025, time.March, 10)
	result, err := AdvanceStreak(4, &last, day(2025, time.March, 11))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 5 || !result.Continued || result.Broken {
		t.Errorf("next-day = %+v, want streak 5, continued, not broken", result)
	}
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	last := day(2025, time.March, 10)
	for _, gap := range []int{2, 3, 30} {
		result, err := AdvanceStreak(9, &last, day(2025, time.March, 10+gap))
		if err != nil {
			t.Fatalf("AdvanceStreak() gap %d error: %v", gap, err)
		}
		if result.NewStreak != 1 || result.Continued || !result.Broken {
			t.Errorf("gap %d = %+v, want streak 1, not continued, broken", gap, result)
		}
	}
}

func TestAdvanceStreak_IntraDayTimestamps(t *testing.T) {
	// Timestamps within a day compare at calendar-day granularity.
	last := time.Date(2025, time.March, 10, 23, 50, 0, 0, time.UTC)
	result, err := AdvanceStreak(2, &last, time.Date(2025, time.March, 11, 0, 5, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 3 {
		t.Errorf("streak across midnight = %d, want 3", result.NewStreak)
	}
}

func TestAdvanceStreak_AcrossDSTTransition(t *testing.T) {
	// US clocks spring forward on 2026-03-08: midnight to midnight is 23h,
	// so day math must compare calendar days, not elapsed hours.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	last := time.Date(2026, time.March, 8, 9, 0, 0, 0, ny)
	result, err := AdvanceStreak(4, &last, time.Date(2026, time.March, 9, 9, 0, 0, 0, ny))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 5 || !result.Continued || result.Broken {
		t.Errorf("consecutive days over spring-forward = %+v, want streak 5, continued", result)
	}

	last = time.Date(2026, time.March, 7, 9, 0, 0, 0, ny)
	result, err = AdvanceStreak(4, &last, time.Date(2026, time.March, 9, 9, 0, 0, 0, ny))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 1 || !result.Broken {
		t.Errorf("two-day gap over spring-forward = %+v, want reset to 1 and broken", result)
	}

	// Fall-back (2026-11-01) makes midnight to midnight 25h; the next
	// calendar day must still count as consecutive.
	last = time.Date(2026, time.November, 1, 9, 0, 0, 0, ny)
	result, err = AdvanceStreak(2, &last, time.Date(2026, time.November, 2, 9, 0, 0, 0, ny))
	if err != nil {
		t.Fatalf("AdvanceStreak() error: %v", err)
	}
	if result.NewStreak != 3 || !result.Continued {
		t.Errorf("consecutive days over fall-back = %+v, want streak 3, continued", result)
	}
}

func TestAdvanceStreak_ClockSkew(t *testing.T) {
	last := day(2025, time.March, 10)
	_, err := AdvanceStreak(2, &last, day(2025, time.March, 9))
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("backwards clock error = %v, want ErrInvalidTimestamp", err)
	}
}
