package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies a failure for reporting
type ErrorKind string

const (
	// KindNone means no error
	KindNone ErrorKind = ""
	// KindInvalidPair is a nested target or missing source; fatal to the pair
	KindInvalidPair ErrorKind = "invalid-pair"
	// KindIO is a copy, mkdir, stat or read failure; isolated to one file
	KindIO ErrorKind = "io"
	// KindValidation is a digest mismatch; isolated to one file
	KindValidation ErrorKind = "validation"
	// KindConfiguration is an unusable configuration entry
	KindConfiguration ErrorKind = "configuration"
	// KindCancelled means the run was stopped by its context
	KindCancelled ErrorKind = "cancelled"
)

// Reasons wrapped by InvalidPairError
var (
	ErrMissingSource = errors.New("source directory does not exist")
	ErrSourceNotDir  = errors.New("source path is not a directory")
	ErrNestedTarget  = errors.New("target directory cannot be inside source directory")
	ErrNestedSource  = errors.New("source directory cannot be inside target directory in two-way mode")
)

// InvalidPairError rejects a folder pair before any scan
type InvalidPairError struct {
	Pair FolderPair
	Err  error
}

func (e *InvalidPairError) Error() string {
	return fmt.Sprintf("invalid folder pair %s: %v", e.Pair, e.Err)
}

func (e *InvalidPairError) Unwrap() error {
	return e.Err
}

// IOError is a filesystem failure on a single path
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	// os errors already name op and path; keep only their cause
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) && pathErr.Path == e.Path {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, pathErr.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ValidationError reports two files whose digests differ after a copy or check
type ValidationError struct {
	Path        string
	OtherPath   string
	Digest      string
	OtherDigest string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("file validation failed - checksums don't match: %s (%s) vs %s (%s)",
		e.Path, e.Digest, e.OtherPath, e.OtherDigest)
}

// ConfigurationError represents an invalid configuration value
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Field + ": " + e.Message
}

// KindOf maps an error onto the reporting taxonomy
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		pairErr *InvalidPairError
		valErr  *ValidationError
		cfgErr  *ConfigurationError
		ioErr   *IOError
	)
	switch {
	case errors.As(err, &pairErr):
		return KindInvalidPair
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &ioErr):
		return KindIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindIO
	}
}
