package achievementdb

import "errors"

var (
	// ErrConflict indicates the (user, category, tier) record already exists.
	ErrConflict = errors.New("achievement record already exists")
)
