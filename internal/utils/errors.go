package utils

import (
	"errors"
	"fmt"
)

// ErrLoad marks failures to open or decode an input image.
var ErrLoad = errors.New("image load failed")

// ImageProcessingError represents errors that can occur during image handling.
type ImageProcessingError struct {
	Operation string
	Path      string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("image processing error in %s (%s): %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// Is reports load and decode failures as ErrLoad.
func (e *ImageProcessingError) Is(target error) bool {
	return target == ErrLoad && (e.Operation == "load" || e.Operation == "decode")
}
