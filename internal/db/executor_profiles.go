package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const executorProfileColumns = `id, user_id, skills, completed_projects, total_projects,
	average_delivery_speed, reputation_score, active_projects_count, created_at, updated_at`

// GetExecutorProfile retrieves the profile for a user. Returns nil, nil when none exists.
func (db *DB) GetExecutorProfile(ctx context.Context, userID uuid.UUID) (*ExecutorProfile, error) {
	var p ExecutorProfile
	err := db.pool.QueryRow(ctx,
		`SELECT `+executorProfileColumns+` FROM executor_profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.Skills, &p.CompletedProjects, &p.TotalProjects,
		&p.AverageDeliverySpeed, &p.ReputationScore, &p.ActiveProjectsCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get executor profile: %w", err)
	}
	return &p, nil
}

// UpsertExecutorProfile creates a profile for p.UserID. If one already exists
// it is returned unchanged, so concurrent first requests converge on one row.
func (db *DB) UpsertExecutorProfile(ctx context.Context, p *ExecutorProfile) (*ExecutorProfile, error) {
	var out ExecutorProfile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO executor_profiles (user_id, skills, completed_projects, total_projects,
			average_delivery_speed, reputation_score, active_projects_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = executor_profiles.user_id
		 RETURNING `+executorProfileColumns,
		p.UserID, p.Skills, p.CompletedProjects, p.TotalProjects,
		p.AverageDeliverySpeed, p.ReputationScore, p.ActiveProjectsCount,
	).Scan(&out.ID, &out.UserID, &out.Skills, &out.CompletedProjects, &out.TotalProjects,
		&out.AverageDeliverySpeed, &out.ReputationScore, &out.ActiveProjectsCount, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor profile: %w", err)
	}
	return &out, nil
}
