package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrInsufficientSources = errors.New("at least two sources are required to compare")
	ErrDuplicateLabel      = errors.New("duplicate source label")
)
