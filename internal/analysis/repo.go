package analysis

import "context"

// AnalysesRepo defines persistence for analysis snapshots and their
// classified requirements. Replace always fully supersedes any prior
// snapshot for the same document.
type AnalysesRepo interface {
	Replace(ctx context.Context, a Analysis, requirements []ClassifiedRequirement) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	GetByDocumentID(ctx context.Context, documentID string) (Analysis, error)
	Requirements(ctx context.Context, analysisID string) ([]ClassifiedRequirement, error)
}
