// Package errors provides classified error primitives used across docsync.
//
// A ClassifiedError carries a category, a severity and structured context on
// top of an optional cause. Categories drive CLI exit codes via CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write markdown").
//		WithContext("path", dst).
//		Build()
package errors
