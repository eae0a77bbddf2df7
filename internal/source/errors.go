package source

import "errors"

// Sentinel errors for the source package.
var (
	// ErrNotRegistered is returned when a name is not in the registry.
	ErrNotRegistered = errors.New("source not registered")

	// ErrAlreadyRegistered is returned on duplicate registration.
	ErrAlreadyRegistered = errors.New("source already registered")
)
