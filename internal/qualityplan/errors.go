package qualityplan

import "errors"

var (
	// ErrNotFound indicates no plan comparison exists for the analysis.
	ErrNotFound = errors.New("quality plan analysis not found")
	// ErrAnalysisNotFound indicates the referenced SRS analysis does not
	// exist. Snapshot sources return this so handlers can distinguish a
	// missing analysis from a missing plan.
	ErrAnalysisNotFound = errors.New("srs analysis not found")
	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)
