package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on write.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the caller lacks the role for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput tags validation failures so the HTTP boundary can
	// render them as bad requests rather than server faults.
	ErrInvalidInput = errors.New("invalid input")
)
