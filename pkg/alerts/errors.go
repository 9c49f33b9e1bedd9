package alerts

import "errors"

var (
	ErrAlertNotFound = errors.New("alerts: alert not found")
	ErrInvalidAlert  = errors.New("alerts: invalid alert")
)
