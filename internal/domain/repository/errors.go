package repository

import "errors"

// Sentinel errors shared by all repository implementations. Services
// translate these into apperr values; handlers never see them directly.
var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned by UserRepository.Create when the
	// email unique constraint fires. The auth service treats it exactly
	// like a pre-check conflict, so concurrent registrations for the same
	// email race safely.
	ErrDuplicateEmail = errors.New("email already registered")
)
