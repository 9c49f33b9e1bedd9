package tenant

import "errors"

var (
	ErrTenantNotFound = errors.New("tenant: tenant not found")
	ErrInvalidTenant  = errors.New("tenant: invalid tenant")
)
