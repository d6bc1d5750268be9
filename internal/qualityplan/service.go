package qualityplan

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/extract"
	"qualitymap-backend/internal/shared/metrics"
	"qualitymap-backend/internal/shared/storage/object"
	"qualitymap-backend/internal/shared/telemetry"
)

// SRSAnalysisSource supplies the SRS analysis snapshot a plan is compared
// against. Implementations return ErrAnalysisNotFound for unknown IDs.
type SRSAnalysisSource interface {
	Snapshot(ctx context.Context, analysisID string) (SRSSnapshot, error)
}

// Service uploads quality plan documents and compares them against SRS
// analyses.
type Service struct {
	Docs  *documents.Service
	Store object.ObjectStore
	SRS   SRSAnalysisSource
	Repo  PlansRepo
}

// AnalyzePlanDocument stores the plan file, extracts its text, and compares
// it against the referenced SRS analysis. Re-uploading a plan for the same
// analysis replaces the prior comparison.
func (s *Service) AnalyzePlanDocument(ctx context.Context, analysisID, fileName string, r io.Reader) (QualityPlan, SRSWarning, error) {
	snapshot, err := s.SRS.Snapshot(ctx, analysisID)
	if err != nil {
		return QualityPlan{}, SRSWarning{}, err
	}

	doc, err := s.Docs.Upload(ctx, fileName, r)
	if err != nil {
		return QualityPlan{}, SRSWarning{}, err
	}

	extracted, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		s.markError(ctx, doc.ID)
		return QualityPlan{}, SRSWarning{}, fmt.Errorf("%w: %w", extract.ErrExtractionFailed, err)
	}

	warning := DetectSRSLookalike(extracted.Text)
	if warning.IsLikelySRS {
		telemetry.Info("plan upload looks like an srs", map[string]any{
			"analysis_id":    analysisID,
			"srs_indicators": warning.SRSIndicatorsFound,
			"qp_indicators":  warning.QPIndicatorsFound,
		})
	}

	report := AnalyzePlan(extracted.Text, snapshot)

	plan := QualityPlan{
		ID:         uuid.NewString(),
		AnalysisID: analysisID,
		DocumentID: doc.ID,
		Report:     report,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Replace(ctx, plan); err != nil {
		s.markError(ctx, doc.ID)
		return QualityPlan{}, SRSWarning{}, fmt.Errorf("persist quality plan: %w", err)
	}

	if err := s.Docs.SetStatus(ctx, doc.ID, documents.StatusCompleted); err != nil {
		telemetry.Error("status update failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
	}

	metrics.IncPlanAnalyzed()
	telemetry.Info("quality plan stored", map[string]any{
		"plan_id":     plan.ID,
		"analysis_id": analysisID,
		"coverage":    report.OverallCoverage,
		"strength":    report.PlanStrength,
	})

	return plan, warning, nil
}

// Get fetches the stored plan comparison for an analysis.
func (s *Service) Get(ctx context.Context, analysisID string) (QualityPlan, error) {
	return s.Repo.GetByAnalysisID(ctx, analysisID)
}

func (s *Service) markError(ctx context.Context, documentID string) {
	if err := s.Docs.SetStatus(ctx, documentID, documents.StatusError); err != nil {
		telemetry.Error("status update failed", map[string]any{"document_id": documentID, "error": err.Error()})
	}
}
