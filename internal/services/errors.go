package services

import "errors"

// Sentinel errors returned by services. Handlers translate these to
// HTTP statuses at the boundary; store.ErrNotFound and store.ErrConflict
// pass through untouched.
var (
	// ErrForbidden is returned when the caller is authenticated but is
	// not the owner of the entity being mutated. Existence is always
	// checked before ownership, so a missing entity surfaces as
	// store.ErrNotFound rather than ErrForbidden.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login failures never reveal which was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrInvalidCups is returned when a coffee record's cup count is not
	// a positive integer.
	ErrInvalidCups = errors.New("cups must be a positive integer")

	// ErrFutureDate is returned when a coffee record's day bucket is
	// after the current day.
	ErrFutureDate = errors.New("date cannot be in the future")

	// ErrInvalidMonth is returned for an unparseable month filter.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidSettings is returned when coffee settings values are not
	// positive integers.
	ErrInvalidSettings = errors.New("settings values must be positive")
)
