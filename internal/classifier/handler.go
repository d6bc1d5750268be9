package classifier

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/shared/server/respond"
)

// Handler exposes direct classification over HTTP.
type Handler struct {
	model Classifier
}

// NewHandler creates a classifier handler.
func NewHandler(model Classifier) *Handler {
	return &Handler{model: model}
}

// RegisterRoutes mounts classifier routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.predict)
}

type predictRequest struct {
	Text  string   `json:"text"`
	Texts []string `json:"texts"`
}

type predictionDTO struct {
	Category      string             `json:"category"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

type predictResponse struct {
	predictionDTO
	Model ModelInfo `json:"model"`
}

type predictBatchResponse struct {
	Predictions []predictionDTO `json:"predictions"`
	Model       ModelInfo       `json:"model"`
}

// predict classifies a single text or, when "texts" is supplied, a batch.
func (h *Handler) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}

	if len(req.Texts) > 0 {
		preds := h.model.ClassifyBatch(req.Texts)
		dtos := make([]predictionDTO, len(preds))
		for i, pred := range preds {
			dtos[i] = toDTO(pred)
		}
		respond.OK(c, predictBatchResponse{Predictions: dtos, Model: h.model.Info()})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text or texts is required", nil)
		return
	}

	pred := h.model.Classify(req.Text)
	respond.OK(c, predictResponse{predictionDTO: toDTO(pred), Model: h.model.Info()})
}

func toDTO(pred Prediction) predictionDTO {
	return predictionDTO{
		Category:      string(pred.Category),
		Confidence:    pred.Confidence,
		Probabilities: pred.Probabilities,
	}
}
