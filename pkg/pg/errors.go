package pg

import "errors"

var (
	ErrFailedToParseConfig = errors.New("pg: failed to parse connection config")
	ErrFailedToConnect     = errors.New("pg: failed to open database connection")
	ErrFailedToMigrate     = errors.New("pg: failed to apply migrations")
	ErrMigrationsPathEmpty = errors.New("pg: migrations path not provided")
	ErrHealthcheckFailed   = errors.New("pg: healthcheck failed")
)
