package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// LiteDB is an SQLite-backed store with the same method set as DB.
type LiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*LiteDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases shared.
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	l := &LiteDB{db: conn}
	if err := l.Migrate(ctx); err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

// Close closes the database handle
func (l *LiteDB) Close() {
	if l.db != nil {
		l.db.Close() //nolint:errcheck
	}
}

// Ping checks that the database is reachable.
func (l *LiteDB) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Migrate creates the tables if they do not exist.
func (l *LiteDB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS executor_profiles (
			id                     TEXT PRIMARY KEY,
			user_id                TEXT NOT NULL UNIQUE,
			skills                 TEXT NOT NULL DEFAULT '[]',
			completed_projects     INTEGER NOT NULL DEFAULT 0,
			total_projects         INTEGER NOT NULL DEFAULT 0,
			average_delivery_speed REAL NOT NULL DEFAULT 0,
			reputation_score       REAL NOT NULL DEFAULT 0,
			active_projects_count  INTEGER NOT NULL DEFAULT 0,
			created_at             INTEGER NOT NULL,
			updated_at             INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS opportunity_fit_scores (
			id                         TEXT PRIMARY KEY,
			opportunity_id             TEXT NOT NULL,
			executor_id                TEXT NOT NULL,
			overall_score              INTEGER NOT NULL,
			skills_match_score         INTEGER NOT NULL,
			skills_match_explanation   TEXT NOT NULL DEFAULT '',
			experience_score           INTEGER NOT NULL,
			experience_explanation     TEXT NOT NULL DEFAULT '',
			success_rate_score         INTEGER NOT NULL,
			success_rate_explanation   TEXT NOT NULL DEFAULT '',
			delivery_speed_score       INTEGER NOT NULL,
			delivery_speed_explanation TEXT NOT NULL DEFAULT '',
			created_at                 INTEGER NOT NULL,
			UNIQUE (opportunity_id, executor_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunity_fit_scores_executor
			ON opportunity_fit_scores (executor_id, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetExecutorProfile retrieves the profile for a user. Returns nil, nil when none exists.
func (l *LiteDB) GetExecutorProfile(ctx context.Context, userID uuid.UUID) (*ExecutorProfile, error) {
	p, err := l.scanProfile(l.db.QueryRowContext(ctx,
		`SELECT `+executorProfileColumns+` FROM executor_profiles WHERE user_id = ?`,
		userID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get executor profile: %w", err)
	}
	return p, nil
}

// UpsertExecutorProfile creates a profile for p.UserID, returning the existing row if present.
func (l *LiteDB) UpsertExecutorProfile(ctx context.Context, p *ExecutorProfile) (*ExecutorProfile, error) {
	now := time.Now().UTC().UnixMilli()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO executor_profiles (id, user_id, skills, completed_projects, total_projects,
			average_delivery_speed, reputation_score, active_projects_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.New().String(), p.UserID.String(), p.Skills, p.CompletedProjects, p.TotalProjects,
		p.AverageDeliverySpeed, p.ReputationScore, p.ActiveProjectsCount, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor profile: %w", err)
	}

	out, err := l.GetExecutorProfile(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("failed to create executor profile: row missing after insert")
	}
	return out, nil
}

// GetFitScore retrieves the stored score for a pair. Returns nil, nil when none exists.
func (l *LiteDB) GetFitScore(ctx context.Context, opportunityID string, executorID uuid.UUID) (*FitScore, error) {
	s, err := l.scanFitScore(l.db.QueryRowContext(ctx,
		`SELECT `+fitScoreColumns+` FROM opportunity_fit_scores
		 WHERE opportunity_id = ? AND executor_id = ?`,
		opportunityID, executorID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	return s, nil
}

// InsertFitScore stores a new score. A second insert for the same pair returns ErrDuplicate.
func (l *LiteDB) InsertFitScore(ctx context.Context, s *FitScore) (*FitScore, error) {
	out := *s
	out.ID = uuid.New()
	out.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO opportunity_fit_scores (id, opportunity_id, executor_id, overall_score,
			skills_match_score, skills_match_explanation,
			experience_score, experience_explanation,
			success_rate_score, success_rate_explanation,
			delivery_speed_score, delivery_speed_explanation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID.String(), out.OpportunityID, out.ExecutorID.String(), out.OverallScore,
		out.SkillsMatchScore, out.SkillsMatchExplanation,
		out.ExperienceScore, out.ExperienceExplanation,
		out.SuccessRateScore, out.SuccessRateExplanation,
		out.DeliverySpeedScore, out.DeliverySpeedExplanation, out.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isSQLiteUnique(err) {
			return nil, fmt.Errorf("fit score for %s/%s: %w", s.OpportunityID, s.ExecutorID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert fit score: %w", err)
	}
	return &out, nil
}

// ListFitScores retrieves an executor's scores, newest first
func (l *LiteDB) ListFitScores(ctx context.Context, executorID uuid.UUID, limit int) ([]FitScore, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT `+fitScoreColumns+` FROM opportunity_fit_scores
		 WHERE executor_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		executorID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit scores: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	scores := []FitScore{}
	for rows.Next() {
		s, err := l.scanFitScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fit score: %w", err)
		}
		scores = append(scores, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fit scores: %w", err)
	}
	return scores, nil
}

func (l *LiteDB) scanProfile(row scanner) (*ExecutorProfile, error) {
	var (
		p                    ExecutorProfile
		id, userID           string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &userID, &p.Skills, &p.CompletedProjects, &p.TotalProjects,
		&p.AverageDeliverySpeed, &p.ReputationScore, &p.ActiveProjectsCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", id, err)
	}
	if p.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func (l *LiteDB) scanFitScore(row scanner) (*FitScore, error) {
	var (
		s               FitScore
		id, executorID  string
		createdAtMillis int64
	)
	if err := row.Scan(&id, &s.OpportunityID, &executorID, &s.OverallScore,
		&s.SkillsMatchScore, &s.SkillsMatchExplanation,
		&s.ExperienceScore, &s.ExperienceExplanation,
		&s.SuccessRateScore, &s.SuccessRateExplanation,
		&s.DeliverySpeedScore, &s.DeliverySpeedExplanation, &createdAtMillis); err != nil {
		return nil, err
	}

	var err error
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid fit score id %q: %w", id, err)
	}
	if s.ExecutorID, err = uuid.Parse(executorID); err != nil {
		return nil, fmt.Errorf("invalid executor id %q: %w", executorID, err)
	}
	s.CreatedAt = time.UnixMilli(createdAtMillis).UTC()
	return &s, nil
}

func isSQLiteUnique(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	code := liteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
