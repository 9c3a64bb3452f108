package readiness

import "errors"

// ErrTimeoutExceeded is returned when a timeout is exceeded.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// ErrMaxAttemptsExceeded is returned when the poll budget is used up.
var ErrMaxAttemptsExceeded = errors.New("maximum readiness polls exceeded")
