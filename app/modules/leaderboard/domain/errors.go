package leaderboarddomain

import "errors"

var (
	// ErrInvalidDefinition is returned when a leaderboard definition fails validation.
	ErrInvalidDefinition = errors.New("invalid leaderboard definition")
	// ErrInvalidWeights is returned for tier weights that are negative, missing or decreasing.
	ErrInvalidWeights = errors.New("invalid tier weights")
	// ErrInvalidWindow is returned when a window boundary cannot be parsed.
	ErrInvalidWindow = errors.New("invalid window boundary")
	// ErrLeaderboardNotFound is returned when no definition exists for an id.
	ErrLeaderboardNotFound = errors.New("leaderboard not found")
	// ErrInvalidPage is returned for negative offsets or limits.
	ErrInvalidPage = errors.New("invalid page")
)
