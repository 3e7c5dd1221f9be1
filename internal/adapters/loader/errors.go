package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrMalformedRecord = errors.New("malformed score record")
	ErrEmptySource     = errors.New("score source has no records")
	ErrNotEnoughFiles  = errors.New("not enough score files")
)
