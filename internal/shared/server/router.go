package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/analysis"
	"qualitymap-backend/internal/classifier"
	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/qualityplan"
	"qualitymap-backend/internal/shared/config"
	"qualitymap-backend/internal/shared/metrics"
	"qualitymap-backend/internal/shared/server/middleware"
	"qualitymap-backend/internal/shared/server/respond"
)

// RouterDeps carries everything NewRouter needs to wire routes.
type RouterDeps struct {
	Config             config.Config
	DocumentsHandler   *documents.Handler
	AnalysisHandler    *analysis.Handler
	QualityPlanHandler *qualityplan.Handler
	ClassifierHandler  *classifier.Handler
	ModelInfo          classifier.ModelInfo
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{
			"status": "ok",
			"model": gin.H{
				"name":     deps.ModelInfo.Name,
				"accuracy": deps.ModelInfo.Accuracy,
				"classes":  deps.ModelInfo.Classes,
			},
		})
	})

	deps.DocumentsHandler.RegisterRoutes(api)
	deps.AnalysisHandler.RegisterRoutes(api)
	deps.QualityPlanHandler.RegisterRoutes(api)
	deps.ClassifierHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
