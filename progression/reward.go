package progression

import "fmt"

// Reward is the XP/coin award for a single completion.
type Reward struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// Fixed reward table, no randomness.
var rewardTable = map[string]Reward{
	"easy":   {XP: 25, Coins: 5},
	"medium": {XP: 50, Coins: 10},
	"hard":   {XP: 100, Coins: 20},
}

// CalculateReward maps a task difficulty to its fixed XP/coin award.
func CalculateReward(difficulty string) (Reward, error) {
	reward, ok := rewardTable[difficulty]
	if !ok {
		return Reward{}, fmt.Errorf("%w: %q", ErrInvalidDifficulty, difficulty)
	}
	return reward, nil
}

// ValidDifficulty reports whether difficulty is one of the enumerated values.
func ValidDifficulty(difficulty string) bool {
	_, ok := rewardTable[difficulty]
	return ok
}
