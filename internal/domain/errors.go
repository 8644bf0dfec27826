package domain

import "errors"

// Traversal errors - snapshot builder
var (
	// ErrRootUnreadable indicates the snapshot root itself could not be read
	ErrRootUnreadable = errors.New("snapshot root unreadable")

	// ErrNotDirectory indicates expected a directory but got something else
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("path not found")
)

// Command errors - target validation
var (
	// ErrNoTargets indicates every remove target was rejected
	ErrNoTargets = errors.New("no target directories specified")

	// ErrSourceInvalid indicates the copy/sync source is missing or not a directory
	ErrSourceInvalid = errors.New("source is not a directory")

	// ErrDestinationInvalid indicates the destination could not be created
	ErrDestinationInvalid = errors.New("destination could not be created")
)

// Config errors
var (
	// ErrConfigInvalid indicates config file or flags are malformed
	ErrConfigInvalid = errors.New("invalid config")

	// ErrUnsupportedAlgorithm indicates an unknown hash algorithm name
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
)
