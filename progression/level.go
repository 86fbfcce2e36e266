package progression

import "fmt"

// XPPerLevel is the stepped level threshold. Level is always derived from
// cumulative XP, never stored.
const XPPerLevel = 100

// LevelInfo is the derived level state for a cumulative XP total.
type LevelInfo struct {
	Level       int `json:"level"`
	XPIntoLevel int `json:"xp_into_level"`
	XPToNext    int `json:"xp_to_next"`
}

// ResolveLevel maps cumulative XP to its level number and progress within
// the level.
func ResolveLevel(xp int) (LevelInfo, error) {
	if xp < 0 {
		return LevelInfo{}, fmt.Errorf("%w: %d", ErrInvalidXP, xp)
	}

	level := xp/XPPerLevel + 1
	return LevelInfo{
		Level:       level,
		XPIntoLevel: xp % XPPerLevel,
		XPToNext:    level * XPPerLevel,
	}, nil
}
