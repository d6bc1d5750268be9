package qualityplan

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory PlansRepo used in tests and database-less runs.
type MemoryRepo struct {
	mu         sync.RWMutex
	byAnalysis map[string]QualityPlan
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byAnalysis: make(map[string]QualityPlan)}
}

// Replace stores the plan snapshot, overwriting any prior one for the
// analysis.
func (r *MemoryRepo) Replace(_ context.Context, p QualityPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byAnalysis[p.AnalysisID] = p
	return nil
}

// GetByAnalysisID fetches the plan snapshot for an analysis.
func (r *MemoryRepo) GetByAnalysisID(_ context.Context, analysisID string) (QualityPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byAnalysis[analysisID]
	if !ok {
		return QualityPlan{}, ErrNotFound
	}
	return p, nil
}

var _ PlansRepo = (*MemoryRepo)(nil)
