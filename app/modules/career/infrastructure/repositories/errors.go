package careerdb

import "errors"

// ErrNotFound indicates the scenario does not exist.
var ErrNotFound = errors.New("career scenario not found")
