package qualityplan

import "context"

// PlansRepo persists quality plan comparisons. One plan snapshot exists per
// analysis; re-uploading replaces it.
type PlansRepo interface {
	Replace(ctx context.Context, p QualityPlan) error
	GetByAnalysisID(ctx context.Context, analysisID string) (QualityPlan, error)
}
