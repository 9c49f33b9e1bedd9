package usage

import "errors"

var (
	ErrInvalidMetric   = errors.New("usage: invalid metric")
	ErrCounterRequired = errors.New("usage: counter function is required")
	ErrFailedToCount   = errors.New("usage: failed to count resource usage")
)
