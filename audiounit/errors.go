package audiounit

import "errors"

var (
	// ErrInvalidCode is returned when a four-character code is malformed.
	ErrInvalidCode = errors.New("audiounit: invalid four-character code")
	// ErrComponentNotFound is returned when no factory is registered for a description.
	ErrComponentNotFound = errors.New("audiounit: component not found")
	// ErrDuplicateComponent is returned when a description is registered twice.
	ErrDuplicateComponent = errors.New("audiounit: duplicate component")
	// ErrNotAllocated is returned when a unit renders before its render
	// resources were allocated.
	ErrNotAllocated = errors.New("audiounit: render resources not allocated")
	// ErrInvalidFormat is returned for unusable stream formats.
	ErrInvalidFormat = errors.New("audiounit: invalid stream format")
	// ErrDuplicateParameter is returned when a tree holds two parameters
	// with the same identifier or address.
	ErrDuplicateParameter = errors.New("audiounit: duplicate parameter")
)
