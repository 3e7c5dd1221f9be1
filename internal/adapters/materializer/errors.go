package materializer

import "errors"

// Sentinel kinds for materializer errors.
var (
	ErrMissingResource = errors.New("frame image not found")
	ErrNoTarget        = errors.New("no target directory configured")
)
