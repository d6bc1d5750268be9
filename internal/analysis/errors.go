package analysis

import (
	"errors"
	"fmt"
)

// MinRequirementSignal is the fewest extracted requirements accepted as an SRS.
const MinRequirementSignal = 3

var (
	// ErrNotFound indicates the analysis does not exist.
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidInput indicates a malformed analysis request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyDocument indicates text extraction produced no usable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// NoSignalError reports that too few requirement statements were found for
// the document to plausibly be an SRS. Terminal and non-retryable.
type NoSignalError struct {
	Found int
}

func (e *NoSignalError) Error() string {
	if e.Found == 0 {
		return "no requirement statements found in the document; ensure it contains sentences with 'shall', 'must', 'should', etc."
	}
	return fmt.Sprintf("only %d requirement statement(s) found, minimum is %d; the document does not appear to be an SRS", e.Found, MinRequirementSignal)
}
