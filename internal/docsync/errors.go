package docsync

import "errors"

// Sentinel errors for sync operations. They are wrapped in classified errors
// and remain matchable with errors.Is.
var (
	// ErrSourceNotFound indicates the source root does not exist or is not a directory.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrClearFailed indicates the clear root could not be removed.
	ErrClearFailed = errors.New("failed to clear destination root")

	// ErrWalkFailed indicates traversal of the source tree failed.
	ErrWalkFailed = errors.New("source directory walk failed")

	// ErrWriteFailed indicates writing a destination file or directory failed.
	ErrWriteFailed = errors.New("destination write failed")

	// ErrReadFailed indicates reading a source file failed.
	ErrReadFailed = errors.New("source read failed")
)
