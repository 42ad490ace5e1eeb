package window

import "errors"

// Sentinel kinds for window errors.
var (
	ErrNegativeWindow = errors.New("window days must be non-negative")
)
