package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the LMS no longer has the requested resource
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized means the LMS rejected the credential
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnsupportedItem marks module items of a type we do not export
	ErrUnsupportedItem = errors.New("unsupported module item type")
	// ErrTemplateMissing means the site template directory does not exist
	ErrTemplateMissing = errors.New("template directory missing")
)

// FilesystemError is returned when the output tree cannot be written.
// It is always fatal for the run.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must stop the run
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fsErr *FilesystemError
	if errors.As(err, &fsErr) {
		return true
	}
	return errors.Is(err, ErrUnauthorized)
}
