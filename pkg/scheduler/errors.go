package scheduler

import "errors"

var (
	ErrInvalidJob       = errors.New("scheduler: job needs a name, schedule, and function")
	ErrJobExists        = errors.New("scheduler: job already registered")
	ErrJobNotFound      = errors.New("scheduler: job not found")
	ErrJobRunning       = errors.New("scheduler: job already running")
	ErrNoJobsRegistered = errors.New("scheduler: no jobs registered")
)
