package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/analysis"
	"qualitymap-backend/internal/classifier"
	"qualitymap-backend/internal/documents"
	"qualitymap-backend/internal/llm"
	openai "qualitymap-backend/internal/llm/openai"
	"qualitymap-backend/internal/qualityplan"
	"qualitymap-backend/internal/shared/config"
	"qualitymap-backend/internal/shared/server"
	"qualitymap-backend/internal/shared/storage/db"
	"qualitymap-backend/internal/shared/storage/object"
	localstore "qualitymap-backend/internal/shared/storage/object/local"
	s3store "qualitymap-backend/internal/shared/storage/object/s3"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Store object.ObjectStore
	Model *classifier.Model

	DocumentsRepo documents.DocumentsRepo
	AnalysesRepo  analysis.AnalysesRepo
	PlansRepo     qualityplan.PlansRepo

	DocumentsService   *documents.Service
	AnalysisService    *analysis.Service
	QualityPlanService *qualityplan.Service

	DocumentsHandler   *documents.Handler
	AnalysisHandler    *analysis.Handler
	QualityPlanHandler *qualityplan.Handler
	ClassifierHandler  *classifier.Handler
}

// Build wires configuration into a ready-to-serve App. The classifier model
// must load; everything else degrades (no database means in-memory repos).
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier model: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Model:  model,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		DocumentsHandler:   app.DocumentsHandler,
		AnalysisHandler:    app.AnalysisHandler,
		QualityPlanHandler: app.QualityPlanHandler,
		ClassifierHandler:  app.ClassifierHandler,
		ModelInfo:          model.Info(),
	})

	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, os.Getenv("SSE_KMS_KEY_ID"))
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	var analysisRepo analysis.AnalysesRepo
	var plansRepo qualityplan.PlansRepo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analysis.PGRepo{DB: app.DB}
		plansRepo = &qualityplan.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analysis.NewMemoryRepo()
		plansRepo = qualityplan.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:         app.Store,
		Repo:          docRepo,
		StoreProvider: app.Config.ObjectStoreType,
	}

	var enhancer *analysis.Enhancer
	if app.Config.LLMProvider == "openai" {
		llmClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			log.Printf("bootstrap: llm client unavailable; domain detection stays keyword-based: %v", err)
		} else {
			enhancer = &analysis.Enhancer{LLM: llm.Client(llmClient)}
		}
	}

	analysisSvc := &analysis.Service{
		Docs:     docSvc,
		Store:    app.Store,
		Model:    app.Model,
		Repo:     analysisRepo,
		Enhancer: enhancer,
	}

	planSvc := &qualityplan.Service{
		Docs:  docSvc,
		Store: app.Store,
		SRS:   srsSource{repo: analysisRepo},
		Repo:  plansRepo,
	}

	app.DocumentsRepo = docRepo
	app.AnalysesRepo = analysisRepo
	app.PlansRepo = plansRepo
	app.DocumentsService = docSvc
	app.AnalysisService = analysisSvc
	app.QualityPlanService = planSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AnalysisHandler = analysis.NewHandler(analysisSvc)
	app.QualityPlanHandler = qualityplan.NewHandler(planSvc)
	app.ClassifierHandler = classifier.NewHandler(app.Model)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// srsSource exposes stored analyses to the quality plan comparison as
// category-count snapshots.
type srsSource struct {
	repo analysis.AnalysesRepo
}

func (s srsSource) Snapshot(ctx context.Context, analysisID string) (qualityplan.SRSSnapshot, error) {
	a, err := s.repo.GetByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			return qualityplan.SRSSnapshot{}, qualityplan.ErrAnalysisNotFound
		}
		return qualityplan.SRSSnapshot{}, err
	}

	counts := make(map[string]int, len(a.CategoryScores))
	for name, score := range a.CategoryScores {
		counts[name] = score.Count
	}

	return qualityplan.SRSSnapshot{
		AnalysisID:        a.ID,
		DocumentID:        a.DocumentID,
		CategoryCounts:    counts,
		CategoriesPresent: a.CategoriesPresent,
		CategoriesMissing: a.CategoriesMissing,
	}, nil
}
