// Package scheduler runs named jobs on fixed schedules inside the
// process: every interval, hourly at a minute, or daily at a time.
//
// Jobs are non-reentrant. A job still running when its next tick arrives
// is skipped for that tick rather than started twice, so sweeps that
// occasionally overrun their interval never race themselves. Job failures
// and panics are logged and never stop the scheduler.
package scheduler
