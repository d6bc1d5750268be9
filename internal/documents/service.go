package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"qualitymap-backend/internal/shared/storage/object"
)

// MaxUploadSize is the upload limit enforced by handler and service.
const MaxUploadSize = 10 << 20 // 10MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Service contains business logic for documents.
type Service struct {
	Store         object.ObjectStore
	Repo          DocumentsRepo
	StoreProvider string
}

// Upload validates the file, saves it to object storage, and records the document.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	// Size is enforced before Save so an oversized upload never reaches
	// the object store.
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return Document{}, fmt.Errorf("%w: upload exceeds %d bytes", ErrTooLarge, int64(MaxUploadSize))
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:              uuid.NewString(),
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.provider(),
		StorageKey:      storageKey,
		Status:          StatusUploaded,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns documents ordered newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, limit, offset)
}

// SetStatus transitions a document's lifecycle status.
func (s *Service) SetStatus(ctx context.Context, documentID, status string) error {
	return s.Repo.UpdateStatus(ctx, documentID, status)
}

func (s *Service) provider() string {
	if s.StoreProvider == "" {
		return "local"
	}
	return s.StoreProvider
}
