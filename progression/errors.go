package progression

import "errors"

// Engine error taxonomy. Services wrap these into shared.AppError at the
// HTTP boundary; ErrConcurrentModification is the only condition the
// orchestrator retries internally.
var (
	ErrInvalidDifficulty      = errors.New("invalid difficulty")
	ErrInvalidTimestamp       = errors.New("invalid timestamp")
	ErrInvalidXP              = errors.New("invalid xp")
	ErrUserNotFound           = errors.New("user not found")
	ErrPersistenceFailure     = errors.New("persistence failure")
	ErrConcurrentModification = errors.New("concurrent modification")
)
