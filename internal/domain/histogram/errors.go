package histogram

import "errors"

// Sentinel kinds for histogram errors.
var (
	ErrEmptyInput    = errors.New("empty score sequence")
	ErrNegativeScore = errors.New("negative score")
	ErrScoreTooLarge = errors.New("score above supported ceiling")
)
