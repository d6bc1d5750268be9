package qualityplan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/extract"
	"qualitymap-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the quality plan service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches quality plan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quality-plans/:analysisId", h.analyze)
	rg.GET("/quality-plans/:analysisId", h.get)
}

type planResponse struct {
	PlanID            string                      `json:"planId"`
	AnalysisID        string                      `json:"analysisId"`
	DocumentID        string                      `json:"documentId"`
	CategoryCoverage  map[string]CategoryCoverage `json:"categoryCoverage"`
	OverallCoverage   float64                     `json:"overallCoverage"`
	AchievableQuality float64                     `json:"achievableQuality"`
	PlanStrength      string                      `json:"planStrength"`
	Suggestions       []Suggestion                `json:"suggestions"`
	Summary           string                      `json:"summary"`
	SRSDetection      *SRSWarning                 `json:"srsDetection,omitempty"`
	CreatedAt         string                      `json:"createdAt"`
}

func (h *Handler) analyze(c *gin.Context) {
	analysisID := c.Param("analysisId")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, documents.MaxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > documents.MaxUploadSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10MB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	plan, warning, err := h.Svc.AnalyzePlanDocument(c.Request.Context(), analysisID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrAnalysisNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no SRS analysis found for this id; analyze an SRS first", map[string]any{"analysisId": analysisID})
		case errors.Is(err, documents.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "only PDF, DOCX, and TXT files are supported", nil)
		case errors.Is(err, documents.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10MB limit", nil)
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, extract.ErrExtractionFailed):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "unable to extract text from the quality plan", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "quality plan analysis failed", nil)
		}
		return
	}

	resp := toResponse(plan)
	if warning.IsLikelySRS {
		resp.SRSDetection = &warning
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	analysisID := c.Param("analysisId")

	plan, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no quality plan found for this analysis", map[string]any{"analysisId": analysisID})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch quality plan", nil)
		return
	}

	respond.OK(c, toResponse(plan))
}

func toResponse(p QualityPlan) planResponse {
	return planResponse{
		PlanID:            p.ID,
		AnalysisID:        p.AnalysisID,
		DocumentID:        p.DocumentID,
		CategoryCoverage:  p.Report.CategoryCoverage,
		OverallCoverage:   p.Report.OverallCoverage,
		AchievableQuality: p.Report.AchievableQuality,
		PlanStrength:      p.Report.PlanStrength,
		Suggestions:       p.Report.Suggestions,
		Summary:           p.Report.Summary,
		CreatedAt:         p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
