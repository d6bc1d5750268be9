package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"qualitymap-backend/internal/classifier"
	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/extract"
	"qualitymap-backend/internal/shared/metrics"
	"qualitymap-backend/internal/shared/storage/object"
	"qualitymap-backend/internal/shared/telemetry"
)

// Service runs the SRS analysis pipeline: extract text, find requirement
// candidates, classify them, detect the domain, score coverage, persist.
type Service struct {
	Docs     *documents.Service
	Store    object.ObjectStore
	Model    classifier.Classifier
	Repo     AnalysesRepo
	Enhancer *Enhancer
}

// DocumentStats carries text-extraction stats into the response.
type DocumentStats struct {
	WordCount int `json:"wordCount"`
	PageCount int `json:"pageCount"`
}

// Result is the full outcome of one analysis run.
type Result struct {
	Analysis          Analysis
	Requirements      []ClassifiedRequirement
	ExtractionStats   ExtractionStats
	DocumentStats     DocumentStats
	ProcessingSeconds float64
}

// Analyze runs the pipeline for one uploaded document. Re-analyzing the same
// document replaces the prior snapshot.
func (s *Service) Analyze(ctx context.Context, documentID string) (Result, error) {
	start := time.Now()
	metrics.IncAnalysisStarted()

	doc, err := s.Docs.Get(ctx, documentID)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Result{}, err
	}

	if err := s.Docs.SetStatus(ctx, doc.ID, documents.StatusProcessing); err != nil {
		telemetry.Error("status update failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
	}

	extracted, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		s.markError(ctx, doc.ID)
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("%w: %w", extract.ErrExtractionFailed, err)
	}
	if extracted.Text == "" {
		s.markError(ctx, doc.ID)
		metrics.IncAnalysisFailed()
		return Result{}, ErrEmptyDocument
	}

	extraction := ExtractRequirements(extracted.Text)
	if extraction.TotalFound < MinRequirementSignal {
		s.markError(ctx, doc.ID)
		metrics.IncAnalysisFailed()
		return Result{}, &NoSignalError{Found: extraction.TotalFound}
	}

	texts := RequirementTexts(extraction)
	predictions := s.Model.ClassifyBatch(texts)
	metrics.AddRequirementsClassified(len(predictions))

	classified := make([]ClassifiedRequirement, len(predictions))
	for i, pred := range predictions {
		cand := extraction.Requirements[i]
		classified[i] = ClassifiedRequirement{
			Text:            cand.Text,
			Category:        pred.Category,
			Confidence:      pred.Confidence,
			Probabilities:   pred.Probabilities,
			KeywordStrength: cand.KeywordStrength,
			SourceIndex:     cand.SourceIndex,
		}
	}

	domain := DetectDomain(texts, extracted.Text)
	domain = s.Enhancer.EnhanceDomain(ctx, extracted.Text, classified, domain)

	report := BuildReport(classified, &domain)
	report.ID = uuid.NewString()
	report.DocumentID = doc.ID
	report.CreatedAt = time.Now().UTC()

	if err := s.Repo.Replace(ctx, report, classified); err != nil {
		s.markError(ctx, doc.ID)
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("persist analysis: %w", err)
	}

	if err := s.Docs.SetStatus(ctx, doc.ID, documents.StatusCompleted); err != nil {
		telemetry.Error("status update failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
	}

	elapsed := time.Since(start)
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))

	telemetry.Info("analysis complete", map[string]any{
		"analysis_id":        report.ID,
		"document_id":        doc.ID,
		"total_requirements": report.TotalRequirements,
		"overall_score":      report.OverallScore,
		"domain":             report.Domain.Domain,
		"duration_ms":        elapsed.Milliseconds(),
	})

	return Result{
		Analysis:        report,
		Requirements:    classified,
		ExtractionStats: extraction.Stats,
		DocumentStats: DocumentStats{
			WordCount: extracted.WordCount,
			PageCount: extracted.PageCount,
		},
		ProcessingSeconds: round2(elapsed.Seconds()),
	}, nil
}

// Report fetches a persisted analysis snapshot with its requirements.
func (s *Service) Report(ctx context.Context, analysisID string) (Analysis, []ClassifiedRequirement, error) {
	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, nil, err
	}
	reqs, err := s.Repo.Requirements(ctx, analysisID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Analysis{}, nil, err
	}
	return a, reqs, nil
}

// ByDocument fetches the analysis snapshot for a document.
func (s *Service) ByDocument(ctx context.Context, documentID string) (Analysis, error) {
	return s.Repo.GetByDocumentID(ctx, documentID)
}

func (s *Service) markError(ctx context.Context, documentID string) {
	if err := s.Docs.SetStatus(ctx, documentID, documents.StatusError); err != nil {
		telemetry.Error("status update failed", map[string]any{"document_id": documentID, "error": err.Error()})
	}
}
