package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const fitScoreColumns = `id, opportunity_id, executor_id, overall_score,
	skills_match_score, skills_match_explanation,
	experience_score, experience_explanation,
	success_rate_score, success_rate_explanation,
	delivery_speed_score, delivery_speed_explanation, created_at`

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFitScore(row scanner, s *FitScore) error {
	return row.Scan(&s.ID, &s.OpportunityID, &s.ExecutorID, &s.OverallScore,
		&s.SkillsMatchScore, &s.SkillsMatchExplanation,
		&s.ExperienceScore, &s.ExperienceExplanation,
		&s.SuccessRateScore, &s.SuccessRateExplanation,
		&s.DeliverySpeedScore, &s.DeliverySpeedExplanation, &s.CreatedAt)
}

// GetFitScore retrieves the stored score for a pair. Returns nil, nil when none exists.
func (db *DB) GetFitScore(ctx context.Context, opportunityID string, executorID uuid.UUID) (*FitScore, error) {
	var s FitScore
	err := scanFitScore(db.pool.QueryRow(ctx,
		`SELECT `+fitScoreColumns+` FROM opportunity_fit_scores
		 WHERE opportunity_id = $1 AND executor_id = $2`,
		opportunityID, executorID,
	), &s)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	return &s, nil
}

// InsertFitScore stores a new score and returns the persisted row.
// A second insert for the same pair returns ErrDuplicate.
func (db *DB) InsertFitScore(ctx context.Context, s *FitScore) (*FitScore, error) {
	var out FitScore
	err := scanFitScore(db.pool.QueryRow(ctx,
		`INSERT INTO opportunity_fit_scores (opportunity_id, executor_id, overall_score,
			skills_match_score, skills_match_explanation,
			experience_score, experience_explanation,
			success_rate_score, success_rate_explanation,
			delivery_speed_score, delivery_speed_explanation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+fitScoreColumns,
		s.OpportunityID, s.ExecutorID, s.OverallScore,
		s.SkillsMatchScore, s.SkillsMatchExplanation,
		s.ExperienceScore, s.ExperienceExplanation,
		s.SuccessRateScore, s.SuccessRateExplanation,
		s.DeliverySpeedScore, s.DeliverySpeedExplanation,
	), &out)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("fit score for %s/%s: %w", s.OpportunityID, s.ExecutorID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert fit score: %w", err)
	}
	return &out, nil
}

// ListFitScores retrieves an executor's scores, newest first
func (db *DB) ListFitScores(ctx context.Context, executorID uuid.UUID, limit int) ([]FitScore, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+fitScoreColumns+` FROM opportunity_fit_scores
		 WHERE executor_id = $1 ORDER BY created_at DESC LIMIT $2`,
		executorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit scores: %w", err)
	}
	defer rows.Close()

	scores := []FitScore{}
	for rows.Next() {
		var s FitScore
		if err := scanFitScore(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan fit score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fit scores: %w", err)
	}
	return scores, nil
}
