package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDirectory is returned when the scan root does not exist,
	// is not a directory or cannot be listed.
	ErrMissingDirectory = errors.New("directory does not exist or is not readable")

	// ErrAlreadyAnalyzed is returned when the root was already scanned in this
	// session. Front ends treat it as a notice, not a failure.
	ErrAlreadyAnalyzed = errors.New("directory already analyzed")

	// ErrCancelled is set on a Result when the user stopped the scan.
	ErrCancelled = errors.New("scan cancelled by user")
)

// InvalidFileError is reported for a slice file whose header could not be read.
type InvalidFileError struct {
	Path string
	Err  error
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid slice file %s: %v", e.Path, e.Err)
}

func (e *InvalidFileError) Unwrap() error {
	return e.Err
}
