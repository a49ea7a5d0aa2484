// Package apperr holds the error kinds shared across the clippings pipeline.
package apperr

import "errors"

var (
	// ErrFormat marks a malformed location or metadata token. It is scoped
	// to a single clipping record and never aborts a whole file.
	ErrFormat = errors.New("malformed clipping data")

	// ErrIO marks a clippings source or entry file that cannot be read or written.
	ErrIO = errors.New("i/o failure")

	// ErrCollaborator marks a failed or incomplete call to an external tool
	// (ebook-meta, ebook-convert).
	ErrCollaborator = errors.New("external collaborator failed")
)
