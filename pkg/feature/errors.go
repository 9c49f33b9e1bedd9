package feature

import "errors"

var (
	ErrFlagNotFound       = errors.New("feature: flag not found")
	ErrFlagExists         = errors.New("feature: flag already exists")
	ErrInvalidFlag        = errors.New("feature: invalid flag")
	ErrAssignmentNotFound = errors.New("feature: assignment not found")
	ErrDependencyNotMet   = errors.New("feature: dependency not met")
	ErrUnknownDependency  = errors.New("feature: unknown dependency")
	ErrDependencyCycle    = errors.New("feature: dependency cycle")
)
