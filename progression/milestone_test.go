package progression

import (
	"strings"
	"testing"
)

func TestComposeMilestone_LevelUpOutranksStreak(t *testing.T) {
	msg := ComposeMilestone(true, 2, 2, 3)
	if !strings.Contains(msg, "level 2") {
		t.Errorf("message = %q, want level-up message", msg)
	}
}

func TestComposeMilestone_StreakThresholds(t *testing.T) {
	tests := []struct {
		prev, next int
		badge      string
	}{
		{2, 3, "Sprinter"},
		{6, 7, "Starter"},
		{13, 14, "Master"},
	}
	for _, tt := range tests {
		msg := ComposeMilestone(false, 1, tt.prev, tt.next)
		if !strings.Contains(msg, tt.badge) {
			t.Errorf("ComposeMilestone(streak %d→%d) = %q, want %s badge", tt.prev, tt.next, msg, tt.badge)
		}
	}
}

func TestComposeMilestone_QuietCases(t *testing.T) {
	// Ordinary completions and same-day repeats emit no milestone.
	for _, tt := range []struct{ prev, next int }{
		{1, 2},  // no threshold crossed
		{3, 3},  // same-day repeat at a threshold value
		{7, 8},  // already past a threshold
		{0, 1},  // first day
		{14, 1}, // broken streak
	} {
		if msg := ComposeMilestone(false, 1, tt.prev, tt.next); msg != "" {
			t.Errorf("ComposeMilestone(streak %d→%d) = %q, want empty", tt.prev, tt.next, msg)
		}
	}
}
