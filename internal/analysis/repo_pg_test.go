package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"qualitymap-backend/internal/iso9126"
)

func TestPGRepoReplaceDeletesThenInserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	a := Analysis{
		ID:                "analysis-1",
		DocumentID:        "doc-1",
		TotalRequirements: 2,
		OverallScore:      72.5,
		RiskLevel:         "Medium",
		Domain:            DomainInfo{Domain: "Banking / Finance", Confidence: 0.8},
		CategoriesPresent: []string{"Functionality", "Security"},
		CategoriesMissing: []string{"Reliability", "Efficiency", "Usability", "Maintainability", "Portability"},
		CategoryScores:    map[string]CategoryScore{"Functionality": {Count: 1}},
		CreatedAt:         time.Now().UTC(),
	}
	reqs := []ClassifiedRequirement{
		{Text: "The system shall allow login.", Category: iso9126.Functionality, Confidence: 91.2, KeywordStrength: StrengthStrong},
		{Text: "The system shall encrypt data.", Category: iso9126.Security, Confidence: 88.4, KeywordStrength: StrengthStrong, SourceIndex: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analyses").
		WithArgs(a.DocumentID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			a.ID,
			a.DocumentID,
			a.TotalRequirements,
			a.OverallScore,
			a.RiskLevel,
			sqlmock.AnyArg(), // domain
			sqlmock.AnyArg(), // categories_present
			sqlmock.AnyArg(), // categories_missing
			sqlmock.AnyArg(), // category_scores
			sqlmock.AnyArg(), // recommendations
			sqlmock.AnyArg(), // gap_analysis
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	for i, req := range reqs {
		mock.ExpectExec("INSERT INTO requirements").
			WithArgs(a.ID, req.Text, string(req.Category), req.Confidence, req.KeywordStrength, i).
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), a, reqs); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	created := time.Now().UTC()

	domainJSON, _ := json.Marshal(DomainInfo{Domain: "Healthcare", Confidence: 1})
	presentJSON, _ := json.Marshal([]string{"Functionality"})
	missingJSON, _ := json.Marshal([]string{"Security"})
	scoresJSON, _ := json.Marshal(map[string]CategoryScore{"Functionality": {Count: 4, Percentage: 100}})
	recsJSON, _ := json.Marshal([]Recommendation{{Category: "Security", Priority: "high", Message: "add security requirements"}})
	gapsJSON, _ := json.Marshal([]GapEntry{{Category: "Security", GapType: "missing", MinRequired: 3, Shortage: 3}})

	rows := sqlmock.NewRows([]string{
		"id", "document_id", "total_requirements", "overall_score", "risk_level",
		"domain", "categories_present", "categories_missing", "category_scores",
		"recommendations", "gap_analysis", "created_at",
	}).AddRow("analysis-1", "doc-1", 4, 55.0, "High",
		domainJSON, presentJSON, missingJSON, scoresJSON, recsJSON, gapsJSON, created)

	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("analysis-1").
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.Domain.Domain != "Healthcare" {
		t.Fatalf("domain = %s, want Healthcare", a.Domain.Domain)
	}
	if a.CategoryScores["Functionality"].Count != 4 {
		t.Fatalf("functionality count = %d, want 4", a.CategoryScores["Functionality"].Count)
	}
	if len(a.Recommendations) != 1 || a.Recommendations[0].Category != "Security" {
		t.Fatalf("recommendations not decoded: %+v", a.Recommendations)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoRequirementsOrderedByInsertion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rows := sqlmock.NewRows([]string{"requirement_text", "category", "confidence", "keyword_strength", "source_index"}).
		AddRow("The system shall allow login.", "Functionality", 91.2, "strong", 0).
		AddRow("The system shall encrypt data.", "Security", 88.4, "strong", 1)

	mock.ExpectQuery("SELECT (.+) FROM requirements").
		WithArgs("analysis-1").
		WillReturnRows(rows)

	reqs, err := repo.Requirements(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("Requirements: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("len = %d, want 2", len(reqs))
	}
	if reqs[0].Category != iso9126.Functionality || reqs[1].Category != iso9126.Security {
		t.Fatalf("categories not parsed: %+v", reqs)
	}
	if reqs[1].SourceIndex != 1 {
		t.Fatalf("source index = %d, want 1", reqs[1].SourceIndex)
	}
}
