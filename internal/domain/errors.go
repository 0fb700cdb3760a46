package domain

import (
	"errors"
	"fmt"
)

var (
	ErrIO                = errors.New("io error")
	ErrFormat            = errors.New("format error")
	ErrExtraction        = errors.New("extraction error")
	ErrDuplicateDocument = errors.New("duplicate document")
)

// PathError attaches the operation and the offending path to a failure.
// Kind is one of the sentinels above so callers can test it with errors.Is.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewIOError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Kind: ErrIO, Err: err}
}

func NewFormatError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Kind: ErrFormat, Err: err}
}

func NewExtractionError(path string, err error) *PathError {
	return &PathError{Op: "extract", Path: path, Kind: ErrExtraction, Err: err}
}

func NewDuplicateError(path string) *PathError {
	return &PathError{Op: "index", Path: path, Kind: ErrDuplicateDocument}
}
