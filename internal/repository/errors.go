package repository

import "errors"

// Common repository errors
var (
	// ErrAlreadyMember is returned when a membership already exists for the
	// (user, organization) pair.
	ErrAlreadyMember = errors.New("user is already a member of this organization")
)
