package plan

import "errors"

var (
	ErrPlanNotFound  = errors.New("plan: plan not found")
	ErrInvalidPlan   = errors.New("plan: invalid plan configuration")
	ErrInvalidLimit  = errors.New("plan: invalid limit value")
	ErrFailedToLoad  = errors.New("plan: failed to load plan definitions")
	ErrDuplicatePlan = errors.New("plan: duplicate plan key")
)
