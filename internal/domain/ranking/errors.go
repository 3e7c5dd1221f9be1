package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrEmptyInput      = errors.New("empty score sequence")
	ErrInvalidRankSize = errors.New("invalid rank size")
)
