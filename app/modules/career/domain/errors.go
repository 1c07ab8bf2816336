package careerdomain

import "errors"

var (
	ErrInvalidScenario  = errors.New("invalid career scenario")
	ErrScenarioNotFound = errors.New("career scenario not found")
)
