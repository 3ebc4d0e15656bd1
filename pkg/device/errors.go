package device

import "errors"

var (
	// ErrNotFound indicates a device was not found
	ErrNotFound = errors.New("device not found")

	// ErrDuplicate indicates a device with the same id is already registered
	ErrDuplicate = errors.New("device already exists")

	// ErrValidation indicates a device payload is missing or has malformed fields
	ErrValidation = errors.New("validation error")

	// ErrStore indicates the registry store could not be read or written
	ErrStore = errors.New("registry store error")

	// ErrUpstreamUnavailable indicates a discovery backend could not be reached
	ErrUpstreamUnavailable = errors.New("discovery backend unavailable")
)
