package progression

import "fmt"

// Streak day counts that earn a badge callout, in ascending order.
var streakMilestones = []struct {
	Days  int
	Badge string
}{
	{3, "Sprinter"},
	{7, "Starter"},
	{14, "Master"},
}

// ComposeMilestone picks the single milestone message for a completion.
// A level-up outranks a streak milestone, which outranks everything else;
// ordinary repeat completions get no message (achievement unlocks are
// reported separately, never in place of the milestone). Returns "" when
// nothing milestone-worthy happened.
func ComposeMilestone(leveledUp bool, level int, prevStreak, newStreak int) string {
	if leveledUp {
		return fmt.Sprintf("⭐ Level up! You're now level %d!", level)
	}

	// A streak milestone fires only when the streak value actually crossed
	// the threshold on this completion, so same-day repeats stay quiet.
	for _, m := range streakMilestones {
		if newStreak == m.Days && prevStreak < m.Days {
			return fmt.Sprintf("🔥 %d-day streak! %s badge earned!", m.Days, m.Badge)
		}
	}

	return ""
}
