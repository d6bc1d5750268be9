package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a malformed upload request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates a file type outside pdf/docx/txt.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge indicates the upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)
