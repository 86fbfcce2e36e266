package progression

import (
	"errors"
	"testing"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		xp          int
		level       int
		xpIntoLevel int
		xpToNext    int
	}{
		{0, 1, 0, 100},
		{25, 1, 25, 100},
		{99, 1, 99, 100},
		{100, 2, 0, 200},
		{175, 2, 75, 200},
		{999, 10, 99, 1000},
		{1000, 11, 0, 1100},
	}

	for _, tt := range tests {
		info, err := ResolveLevel(tt.xp)
		if err != nil {
			t.Fatalf("ResolveLevel(%d) error: %v", tt.xp, err)
		}
		if info.Level != tt.level {
			t.Errorf("ResolveLevel(%d).Level = %d, want %d", tt.xp, info.Level, tt.level)
		}
		if info.XPIntoLevel != tt.xpIntoLevel {
			t.Errorf("ResolveLevel(%d).XPIntoLevel = %d, want %d", tt.xp, info.XPIntoLevel, tt.xpIntoLevel)
		}
		if info.XPToNext != tt.xpToNext {
			t.Errorf("ResolveLevel(%d).XPToNext = %d, want %d", tt.xp, info.XPToNext, tt.xpToNext)
		}
	}
}

func TestResolveLevel_NegativeXP(t *testing.T) {
	_, err := ResolveLevel(-1)
	if !errors.Is(err, ErrInvalidXP) {
		t.Errorf("ResolveLevel(-1) error = %v, want ErrInvalidXP", err)
	}
}
