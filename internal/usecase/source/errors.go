// Package source provides use cases for managing harvestable repositories.
// It covers registration with the Identify bootstrap, listing, deletion and
// the read-only Identify and ListSets lookups used before registering.
package source

import "errors"

// Sentinel errors for source use case operations.
var (
	// ErrSourceNotFound indicates that the requested source was not found.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDuplicateSource indicates that a source with the same base URL already exists.
	ErrDuplicateSource = errors.New("source with this base URL already exists")
)
