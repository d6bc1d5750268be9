package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// countingStore records Save calls so tests can assert nothing was persisted.
type countingStore struct {
	saves int
}

func (s *countingStore) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, string, error) {
	s.saves++
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	return "key-" + fileName, int64(len(data)), "text/plain", nil
}

func (s *countingStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func TestUploadRejectsOversizeBeforeStoring(t *testing.T) {
	store := &countingStore{}
	svc := &Service{Store: store, Repo: NewMemoryRepo()}

	big := strings.NewReader(strings.Repeat("x", MaxUploadSize+1))
	_, err := svc.Upload(context.Background(), "huge.txt", big)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if store.saves != 0 {
		t.Fatalf("store.Save called %d times for an oversized upload, want 0", store.saves)
	}

	docs, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("repo has %d documents after rejected upload, want 0", len(docs))
	}
}

func TestUploadWithinLimitStoresOnce(t *testing.T) {
	store := &countingStore{}
	svc := &Service{Store: store, Repo: NewMemoryRepo()}

	doc, err := svc.Upload(context.Background(), "srs.txt", strings.NewReader("The system shall work."))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("store.Save called %d times, want 1", store.saves)
	}
	if doc.SizeBytes != int64(len("The system shall work.")) {
		t.Fatalf("size = %d, want %d", doc.SizeBytes, len("The system shall work."))
	}
	if doc.Status != StatusUploaded {
		t.Fatalf("status = %s, want %s", doc.Status, StatusUploaded)
	}
}
