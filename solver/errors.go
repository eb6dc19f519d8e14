package solver

import "errors"

var (
	// ErrBadSettings indicates an invalid Settings value.
	ErrBadSettings = errors.New("solver: invalid settings")

	// ErrDuplicateName is returned when a variable or constraint name is reused.
	ErrDuplicateName = errors.New("solver: duplicate name")

	// ErrUnknownVariable is returned when a constraint references an
	// unregistered variable.
	ErrUnknownVariable = errors.New("solver: unknown variable")

	// ErrBadHandle is returned for handles without value or sigma storage.
	ErrBadHandle = errors.New("solver: handle without storage")

	// ErrEmpty is returned for empty variables or constraints.
	ErrEmpty = errors.New("solver: empty variable or constraint")
)
