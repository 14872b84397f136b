package sheetpeek

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFileNotFound indicates the input file does not exist or cannot be read.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx document.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidCoordinate indicates a malformed cell reference or range.
var ErrInvalidCoordinate = errors.New("invalid cell coordinate")

// ErrImageNotFound indicates no image is anchored at the requested cell.
var ErrImageNotFound = errors.New("no image anchored at cell")

// ErrUnsupportedImage indicates image data that cannot be decoded to pixels.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ErrInvalidPlan indicates a malformed inspection plan.
var ErrInvalidPlan = errors.New("invalid inspection plan")

// ErrNoOperator indicates the operator input closed while the run was paused.
var ErrNoOperator = errors.New("operator input closed")

// StepError represents a failure of one inspection step.
type StepError struct {
	Index int // 1-based position in the plan
	Kind  StepKind
	Label string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Label, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new StepError.
func NewStepError(index int, step Step, err error) *StepError {
	return &StepError{
		Index: index,
		Kind:  step.Kind,
		Label: step.Label(),
		Err:   err,
	}
}
