package leaderboarddb

import "errors"

// ErrNotFound indicates the requested definition or entry does not exist.
var ErrNotFound = errors.New("not found")
