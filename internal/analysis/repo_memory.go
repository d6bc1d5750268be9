package analysis

import (
	"context"
	"sync"
)

// MemoryRepo implements AnalysesRepo in memory, used when no database is
// configured.
type MemoryRepo struct {
	mu           sync.RWMutex
	byID         map[string]Analysis
	byDocument   map[string]string
	requirements map[string][]ClassifiedRequirement
}

// NewMemoryRepo creates an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:         map[string]Analysis{},
		byDocument:   map[string]string{},
		requirements: map[string][]ClassifiedRequirement{},
	}
}

// Replace stores the snapshot, removing any prior snapshot for the document.
func (r *MemoryRepo) Replace(ctx context.Context, a Analysis, requirements []ClassifiedRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byDocument[a.DocumentID]; ok {
		delete(r.byID, prior)
		delete(r.requirements, prior)
	}

	reqsCopy := append([]ClassifiedRequirement(nil), requirements...)
	r.byID[a.ID] = a
	r.byDocument[a.DocumentID] = a.ID
	r.requirements[a.ID] = reqsCopy
	return nil
}

// GetByID fetches an analysis snapshot by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// GetByDocumentID fetches the analysis snapshot for a document.
func (r *MemoryRepo) GetByDocumentID(ctx context.Context, documentID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byDocument[documentID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return r.byID[id], nil
}

// Requirements returns the stored classified requirements of an analysis.
func (r *MemoryRepo) Requirements(ctx context.Context, analysisID string) ([]ClassifiedRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byID[analysisID]; !ok {
		return nil, ErrNotFound
	}
	return append([]ClassifiedRequirement(nil), r.requirements[analysisID]...), nil
}

var _ AnalysesRepo = (*MemoryRepo)(nil)
