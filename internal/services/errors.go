package services

import "errors"

var (
	// ErrNotFound covers both missing and foreign instances; callers must not
	// be able to tell the two apart.
	ErrNotFound = errors.New("instance not found")

	// ErrInvalidCredentials is deliberately generic: it never reveals which
	// field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrProvisionFailed   = errors.New("AWS RDS service temporarily unavailable")
	ErrDeprovisionFailed = errors.New("failed to delete AWS RDS instance")
)
