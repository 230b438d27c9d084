package upstream

import "errors"

var (
	// ErrNoSnapshot is returned when upstream cannot be reached and nothing
	// is cached to fall back to.
	ErrNoSnapshot = errors.New("no cached snapshot available")

	// ErrRefNotFound is returned when the remote does not advertise the
	// configured ref.
	ErrRefNotFound = errors.New("ref not found on remote")
)
