package tenant

import "errors"

// Domain errors for tenant management.
var (
	// ErrInvalidTenancyName is returned when a tenancy name does not match
	// TenancyNamePattern or exceeds MaxTenancyNameLength.
	ErrInvalidTenancyName = errors.New("tenant.invalid_tenancy_name")

	// ErrTenancyNameTaken is returned when another tenant already uses the tenancy name.
	ErrTenancyNameTaken = errors.New("tenant.tenancy_name_taken")
)
