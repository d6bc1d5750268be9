package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"qualitymap-backend/internal/iso9126"
)

// PGRepo implements AnalysesRepo using Postgres. Snapshot fields are stored
// as jsonb; requirements are stored relationally for per-row access.
type PGRepo struct {
	DB *sql.DB
}

// Replace deletes any prior snapshot for the document, then inserts the new
// analysis and its requirements in one transaction.
func (r *PGRepo) Replace(ctx context.Context, a Analysis, requirements []ClassifiedRequirement) error {
	domainJSON, err := json.Marshal(a.Domain)
	if err != nil {
		return fmt.Errorf("marshal domain: %w", err)
	}
	presentJSON, err := json.Marshal(a.CategoriesPresent)
	if err != nil {
		return fmt.Errorf("marshal categories present: %w", err)
	}
	missingJSON, err := json.Marshal(a.CategoriesMissing)
	if err != nil {
		return fmt.Errorf("marshal categories missing: %w", err)
	}
	scoresJSON, err := json.Marshal(a.CategoryScores)
	if err != nil {
		return fmt.Errorf("marshal category scores: %w", err)
	}
	recsJSON, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	gapsJSON, err := json.Marshal(a.GapAnalysis)
	if err != nil {
		return fmt.Errorf("marshal gap analysis: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE document_id = $1`, a.DocumentID); err != nil {
		return fmt.Errorf("delete prior analysis: %w", err)
	}

	const insertAnalysis = `
INSERT INTO analyses (
    id,
    document_id,
    total_requirements,
    overall_score,
    risk_level,
    domain,
    categories_present,
    categories_missing,
    category_scores,
    recommendations,
    gap_analysis,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := tx.ExecContext(
		ctx,
		insertAnalysis,
		a.ID,
		a.DocumentID,
		a.TotalRequirements,
		a.OverallScore,
		a.RiskLevel,
		domainJSON,
		presentJSON,
		missingJSON,
		scoresJSON,
		recsJSON,
		gapsJSON,
		a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	const insertRequirement = `
INSERT INTO requirements (
    analysis_id,
    requirement_text,
    category,
    confidence,
    keyword_strength,
    source_index
) VALUES ($1, $2, $3, $4, $5, $6)`

	for _, req := range requirements {
		if _, err := tx.ExecContext(
			ctx,
			insertRequirement,
			a.ID,
			req.Text,
			string(req.Category),
			req.Confidence,
			req.KeywordStrength,
			req.SourceIndex,
		); err != nil {
			return fmt.Errorf("insert requirement: %w", err)
		}
	}

	return tx.Commit()
}

const selectAnalysis = `
SELECT id, document_id, total_requirements, overall_score, risk_level, domain, categories_present, categories_missing, category_scores, recommendations, gap_analysis, created_at
FROM analyses`

// GetByID fetches an analysis snapshot by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, selectAnalysis+` WHERE id = $1 LIMIT 1`, analysisID)
	return scanAnalysis(row)
}

// GetByDocumentID fetches the analysis snapshot for a document.
func (r *PGRepo) GetByDocumentID(ctx context.Context, documentID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, selectAnalysis+` WHERE document_id = $1 LIMIT 1`, documentID)
	return scanAnalysis(row)
}

// Requirements returns the classified requirements of an analysis in
// extraction order.
func (r *PGRepo) Requirements(ctx context.Context, analysisID string) ([]ClassifiedRequirement, error) {
	const query = `
SELECT requirement_text, category, confidence, keyword_strength, source_index
FROM requirements
WHERE analysis_id = $1
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClassifiedRequirement
	for rows.Next() {
		var req ClassifiedRequirement
		var category string
		var strength sql.NullString
		var sourceIndex sql.NullInt64
		if err := rows.Scan(&req.Text, &category, &req.Confidence, &strength, &sourceIndex); err != nil {
			return nil, err
		}
		req.Category = iso9126.Parse(category)
		if strength.Valid {
			req.KeywordStrength = strength.String
		}
		if sourceIndex.Valid {
			req.SourceIndex = int(sourceIndex.Int64)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var domainJSON, presentJSON, missingJSON, scoresJSON, recsJSON, gapsJSON []byte

	err := row.Scan(
		&a.ID,
		&a.DocumentID,
		&a.TotalRequirements,
		&a.OverallScore,
		&a.RiskLevel,
		&domainJSON,
		&presentJSON,
		&missingJSON,
		&scoresJSON,
		&recsJSON,
		&gapsJSON,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}

	if len(domainJSON) > 0 {
		if err := json.Unmarshal(domainJSON, &a.Domain); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal domain: %w", err)
		}
	}
	if len(presentJSON) > 0 {
		if err := json.Unmarshal(presentJSON, &a.CategoriesPresent); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal categories present: %w", err)
		}
	}
	if len(missingJSON) > 0 {
		if err := json.Unmarshal(missingJSON, &a.CategoriesMissing); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal categories missing: %w", err)
		}
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &a.CategoryScores); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal category scores: %w", err)
		}
	}
	if len(recsJSON) > 0 {
		if err := json.Unmarshal(recsJSON, &a.Recommendations); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal recommendations: %w", err)
		}
	}
	if len(gapsJSON) > 0 {
		if err := json.Unmarshal(gapsJSON, &a.GapAnalysis); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal gap analysis: %w", err)
		}
	}
	return a, nil
}

var _ AnalysesRepo = (*PGRepo)(nil)
