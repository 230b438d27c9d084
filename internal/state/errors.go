package state

import "errors"

var (
	// ErrLocked is returned when another process holds the enablement lock.
	ErrLocked = errors.New("enablement file is locked by another process")

	// ErrInvalidOverrides is returned when an override file fails validation
	// on save.
	ErrInvalidOverrides = errors.New("invalid enablement file")
)
