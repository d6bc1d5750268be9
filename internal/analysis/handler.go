package analysis

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/extract"
	"qualitymap-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
	rg.GET("/reports/:analysisId", h.report)
}

type analyzeRequest struct {
	DocumentID string `json:"documentId"`
}

type requirementDTO struct {
	Text            string  `json:"text"`
	Category        string  `json:"category"`
	Confidence      float64 `json:"confidence"`
	KeywordStrength string  `json:"keywordStrength,omitempty"`
}

type analysisResponse struct {
	AnalysisID        string                   `json:"analysisId"`
	DocumentID        string                   `json:"documentId"`
	TotalRequirements int                      `json:"totalRequirements"`
	OverallScore      float64                  `json:"overallScore"`
	Risk              Risk                     `json:"risk"`
	Domain            DomainInfo               `json:"domain"`
	CategoryScores    map[string]CategoryScore `json:"categoryScores"`
	Requirements      []requirementDTO         `json:"requirements"`
	Recommendations   []Recommendation         `json:"recommendations"`
	GapAnalysis       []GapEntry               `json:"gapAnalysis"`
	CategoriesPresent []string                 `json:"categoriesPresent"`
	CategoriesMissing []string                 `json:"categoriesMissing"`
	ExtractionStats   *ExtractionStats         `json:"extractionStats,omitempty"`
	DocumentStats     *DocumentStats           `json:"documentInfo,omitempty"`
	ProcessingSeconds float64                  `json:"processingTimeS,omitempty"`
	CreatedAt         string                   `json:"createdAt"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "JSON body with documentId is required", nil)
		return
	}
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId cannot be empty", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), req.DocumentID)
	if err != nil {
		var noSignal *NoSignalError
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", map[string]any{"documentId": req.DocumentID})
		case errors.As(err, &noSignal):
			respond.Error(c, http.StatusUnprocessableEntity, "no_requirements_found", noSignal.Error(), map[string]any{"found": noSignal.Found})
		case errors.Is(err, ErrEmptyDocument):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error(), nil)
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, extract.ErrExtractionFailed):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "unable to extract text from the document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		}
		return
	}

	resp := toResponse(result.Analysis, result.Requirements)
	resp.ExtractionStats = &result.ExtractionStats
	resp.DocumentStats = &result.DocumentStats
	resp.ProcessingSeconds = result.ProcessingSeconds
	respond.OK(c, resp)
}

func (h *Handler) report(c *gin.Context) {
	analysisID := c.Param("analysisId")

	a, reqs, err := h.Svc.Report(c.Request.Context(), analysisID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", map[string]any{"analysisId": analysisID})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch report", nil)
		return
	}

	respond.OK(c, toResponse(a, reqs))
}

func toResponse(a Analysis, reqs []ClassifiedRequirement) analysisResponse {
	dtos := make([]requirementDTO, 0, len(reqs))
	for _, r := range reqs {
		dtos = append(dtos, requirementDTO{
			Text:            r.Text,
			Category:        string(r.Category),
			Confidence:      r.Confidence,
			KeywordStrength: r.KeywordStrength,
		})
	}
	return analysisResponse{
		AnalysisID:        a.ID,
		DocumentID:        a.DocumentID,
		TotalRequirements: a.TotalRequirements,
		OverallScore:      a.OverallScore,
		Risk:              RiskForScore(a.OverallScore),
		Domain:            a.Domain,
		CategoryScores:    a.CategoryScores,
		Requirements:      dtos,
		Recommendations:   a.Recommendations,
		GapAnalysis:       a.GapAnalysis,
		CategoriesPresent: a.CategoriesPresent,
		CategoriesMissing: a.CategoriesMissing,
		CreatedAt:         a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
