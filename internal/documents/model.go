package documents

import "time"

// Document status lifecycle values.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Document represents an uploaded SRS or quality plan document.
type Document struct {
	ID               string
	FileName         string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	Status           string
	CreatedAt        time.Time
}
