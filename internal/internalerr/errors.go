// Package internalerr holds the sentinel errors shared by the naming packages.
// Callers match them with errors.Is; the packages wrap them with context.
package internalerr

import "errors"

var (
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrInvalidCatalogRow = errors.New("invalid catalog row")
	ErrCatalogLocked     = errors.New("catalog is locked")
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrMalformedToken    = errors.New("malformed token")
	ErrUnknownVersion    = errors.New("unknown catalog version")
)
