package domain

import "errors"

var (
	// ErrNotFound is returned when a profile or event does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller may not access or modify a resource
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned for malformed identifiers, filters and limits
	ErrInvalidInput = errors.New("invalid input")
	// ErrInactiveProfile is returned when recording against a deactivated profile
	ErrInactiveProfile = errors.New("baby profile is inactive")
	// ErrUnknownKind is returned for event kinds the engine does not know
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrOutOfRange is returned when no reference curve covers the requested age
	ErrOutOfRange = errors.New("outside reference range")
	// ErrInvalidInterval is returned when an end timestamp precedes its start
	ErrInvalidInterval = errors.New("end precedes start")
)
