package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrRender = errors.New("render report failed")
)
