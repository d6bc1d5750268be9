package qualityplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements PlansRepo using Postgres. Coverage and suggestions are
// stored as jsonb alongside the scalar scores.
type PGRepo struct {
	DB *sql.DB
}

// Replace deletes any prior plan snapshot for the analysis, then inserts the
// new one in a single transaction.
func (r *PGRepo) Replace(ctx context.Context, p QualityPlan) error {
	coverageJSON, err := json.Marshal(p.Report.CategoryCoverage)
	if err != nil {
		return fmt.Errorf("marshal category coverage: %w", err)
	}
	suggestionsJSON, err := json.Marshal(p.Report.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quality_plans WHERE analysis_id = $1`, p.AnalysisID); err != nil {
		return fmt.Errorf("delete prior quality plan: %w", err)
	}

	const insertPlan = `
INSERT INTO quality_plans (
    id,
    analysis_id,
    document_id,
    overall_coverage,
    achievable_quality,
    plan_strength,
    category_coverage,
    suggestions,
    summary,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := tx.ExecContext(
		ctx,
		insertPlan,
		p.ID,
		p.AnalysisID,
		p.DocumentID,
		p.Report.OverallCoverage,
		p.Report.AchievableQuality,
		p.Report.PlanStrength,
		coverageJSON,
		suggestionsJSON,
		p.Report.Summary,
		p.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert quality plan: %w", err)
	}

	return tx.Commit()
}

// GetByAnalysisID fetches the plan snapshot for an analysis.
func (r *PGRepo) GetByAnalysisID(ctx context.Context, analysisID string) (QualityPlan, error) {
	const query = `
SELECT id, analysis_id, document_id, overall_coverage, achievable_quality, plan_strength, category_coverage, suggestions, summary, created_at
FROM quality_plans
WHERE analysis_id = $1
LIMIT 1`

	var p QualityPlan
	var coverageJSON, suggestionsJSON []byte

	err := r.DB.QueryRowContext(ctx, query, analysisID).Scan(
		&p.ID,
		&p.AnalysisID,
		&p.DocumentID,
		&p.Report.OverallCoverage,
		&p.Report.AchievableQuality,
		&p.Report.PlanStrength,
		&coverageJSON,
		&suggestionsJSON,
		&p.Report.Summary,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QualityPlan{}, ErrNotFound
		}
		return QualityPlan{}, err
	}

	if len(coverageJSON) > 0 {
		if err := json.Unmarshal(coverageJSON, &p.Report.CategoryCoverage); err != nil {
			return QualityPlan{}, fmt.Errorf("unmarshal category coverage: %w", err)
		}
	}
	if len(suggestionsJSON) > 0 {
		if err := json.Unmarshal(suggestionsJSON, &p.Report.Suggestions); err != nil {
			return QualityPlan{}, fmt.Errorf("unmarshal suggestions: %w", err)
		}
	}
	return p, nil
}

var _ PlansRepo = (*PGRepo)(nil)
