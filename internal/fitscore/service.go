// Package fitscore computes and caches executor/opportunity fit scores.
//
// A score is computed at most once per (opportunity, executor) pair: the
// first request asks the LLM and stores the result, later requests return
// the stored row.
package fitscore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kickinn/kickinn-api/internal/db"
	"github.com/kickinn/kickinn-api/internal/llm"
	"github.com/kickinn/kickinn-api/internal/metrics"
	"github.com/kickinn/kickinn-api/internal/prompts"
	"github.com/kickinn/kickinn-api/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// MissingFieldsMessage is reported when opportunityId or requiredSkills is absent.
const MissingFieldsMessage = "Missing required fields: opportunityId and requiredSkills"

// List limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Store is the persistence the service needs. Both db.DB and db.LiteDB satisfy it.
// Get methods return nil, nil when no row exists.
type Store interface {
	GetFitScore(ctx context.Context, opportunityID string, executorID uuid.UUID) (*db.FitScore, error)
	InsertFitScore(ctx context.Context, s *db.FitScore) (*db.FitScore, error)
	ListFitScores(ctx context.Context, executorID uuid.UUID, limit int) ([]db.FitScore, error)
	GetExecutorProfile(ctx context.Context, userID uuid.UUID) (*db.ExecutorProfile, error)
	UpsertExecutorProfile(ctx context.Context, p *db.ExecutorProfile) (*db.ExecutorProfile, error)
}

// Result is the outcome of Score.
type Result struct {
	Score  *db.FitScore
	Cached bool
}

// Service computes fit scores.
type Service struct {
	store   Store
	llm     llm.Client
	logger  *zap.Logger
	metrics *metrics.Manager
	group   singleflight.Group
}

// NewService creates a fit-score service. logger and m may be nil.
func NewService(store Store, client llm.Client, logger *zap.Logger, m *metrics.Manager) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		llm:     client,
		logger:  logger,
		metrics: m,
	}
}

// DefaultProfile is the profile synthesized for an executor with no history on record.
func DefaultProfile(userID uuid.UUID) *db.ExecutorProfile {
	return &db.ExecutorProfile{
		UserID:               userID,
		Skills:               db.StringArray{"React", "TypeScript", "Node.js", "Python", "UI/UX Design"},
		CompletedProjects:    8,
		TotalProjects:        10,
		AverageDeliverySpeed: 85,
		ReputationScore:      75,
		ActiveProjectsCount:  2,
	}
}

// Score returns the fit score of executorID for the requested opportunity,
// computing and storing it on first request.
func (s *Service) Score(ctx context.Context, executorID uuid.UUID, req *types.FitScoreRequest) (*Result, error) {
	if err := validateRequest(req); err != nil {
		s.metrics.RecordFitScore(metrics.OutcomeError)
		return nil, err
	}

	key := req.OpportunityID + "|" + executorID.String()
	// The computation is shared, so it must outlive any single caller's cancellation.
	ch := s.group.DoChan(key, func() (any, error) {
		return s.compute(context.WithoutCancel(ctx), executorID, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.metrics.RecordFitScore(metrics.OutcomeError)
			return nil, res.Err
		}
		result := *res.Val.(*Result)
		if result.Cached {
			s.metrics.RecordFitScore(metrics.OutcomeCached)
		} else {
			s.metrics.RecordFitScore(metrics.OutcomeComputed)
		}
		if res.Shared {
			s.logger.Debug("fit score computation shared",
				zap.String("opportunity_id", req.OpportunityID),
				zap.String("executor_id", executorID.String()))
		}
		return &result, nil
	}
}

func (s *Service) compute(ctx context.Context, executorID uuid.UUID, req *types.FitScoreRequest) (*Result, error) {
	var (
		cached  *db.FitScore
		profile *db.ExecutorProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cached, err = s.store.GetFitScore(gctx, req.OpportunityID, executorID)
		if err != nil {
			return fmt.Errorf("failed to load fit score: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profile, err = s.store.GetExecutorProfile(gctx, executorID)
		if err != nil {
			return fmt.Errorf("failed to load executor profile: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cached != nil {
		s.logger.Info("fit score cache hit",
			zap.String("opportunity_id", req.OpportunityID),
			zap.String("executor_id", executorID.String()))
		return &Result{Score: cached, Cached: true}, nil
	}

	if profile == nil {
		var err error
		profile, err = s.store.UpsertExecutorProfile(ctx, DefaultProfile(executorID))
		if err != nil {
			return nil, fmt.Errorf("failed to create executor profile: %w", err)
		}
		s.metrics.RecordProfileCreated()
		s.logger.Info("created default executor profile", zap.String("executor_id", executorID.String()))
	}

	system, err := prompts.Get(prompts.FitScoreFile, "system")
	if err != nil {
		return nil, fmt.Errorf("failed to load system prompt: %w", err)
	}
	user, err := prompts.Render(prompts.FitScoreFile, "score-fit", promptData(profile, req))
	if err != nil {
		return nil, fmt.Errorf("failed to render fit score prompt: %w", err)
	}

	start := time.Now()
	raw, err := s.llm.Complete(ctx, llm.ChatRequest{System: system, User: user})
	elapsed := time.Since(start)
	s.metrics.RecordLLMRequest(llmResult(err), elapsed)
	if err != nil {
		s.logger.Warn("fit score completion failed",
			zap.String("model", s.llm.Model()),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, fmt.Errorf("fit score completion failed: %w", err)
	}
	s.logger.Debug("fit score completion",
		zap.String("model", s.llm.Model()),
		zap.Duration("duration", elapsed))

	r, err := parseReply(raw)
	if err != nil {
		s.logger.Warn("unparseable fit score reply", zap.String("raw", truncate(raw, 500)), zap.Error(err))
		return nil, err
	}

	score, deviation := r.toFitScore(req.OpportunityID, executorID)
	if deviation > maxOverallDeviation {
		s.metrics.RecordRubricDeviation()
		s.logger.Warn("model overall score disagrees with rubric",
			zap.Float64("model_overall", r.OverallScore),
			zap.Int("weighted_overall", score.OverallScore),
			zap.String("opportunity_id", req.OpportunityID))
	}

	stored, err := s.store.InsertFitScore(ctx, score)
	if errors.Is(err, db.ErrDuplicate) {
		existing, getErr := s.store.GetFitScore(ctx, req.OpportunityID, executorID)
		if getErr == nil && existing != nil {
			s.logger.Info("fit score stored concurrently, returning stored row",
				zap.String("opportunity_id", req.OpportunityID),
				zap.String("executor_id", executorID.String()))
			return &Result{Score: existing, Cached: true}, nil
		}
	}
	if err != nil {
		return nil, &PersistError{Err: err}
	}

	s.logger.Info("fit score computed",
		zap.String("opportunity_id", req.OpportunityID),
		zap.String("executor_id", executorID.String()),
		zap.Int("overall_score", stored.OverallScore))
	return &Result{Score: stored}, nil
}

// Get returns the caller's stored score for an opportunity.
func (s *Service) Get(ctx context.Context, executorID uuid.UUID, opportunityID string) (*db.FitScore, error) {
	opportunityID = strings.TrimSpace(opportunityID)
	if opportunityID == "" {
		return nil, &ValidationError{Field: "opportunityId", Message: "opportunityId is required"}
	}

	score, err := s.store.GetFitScore(ctx, opportunityID, executorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	if score == nil {
		return nil, fmt.Errorf("fit score for opportunity %s: %w", opportunityID, ErrNotFound)
	}
	return score, nil
}

// List returns the caller's stored scores, newest first. limit is clamped to 1..MaxListLimit,
// with 0 meaning DefaultListLimit.
func (s *Service) List(ctx context.Context, executorID uuid.UUID, limit int) ([]db.FitScore, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	scores, err := s.store.ListFitScores(ctx, executorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list fit scores: %w", err)
	}
	return scores, nil
}

// Profile returns the caller's executor profile.
func (s *Service) Profile(ctx context.Context, executorID uuid.UUID) (*db.ExecutorProfile, error) {
	profile, err := s.store.GetExecutorProfile(ctx, executorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get executor profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("executor profile %s: %w", executorID, ErrNotFound)
	}
	return profile, nil
}

func validateRequest(req *types.FitScoreRequest) error {
	if req == nil {
		return &ValidationError{Field: "body", Message: MissingFieldsMessage}
	}
	req.Normalize()

	err := req.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "body", Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "required", "min":
		if field == "opportunityId" || field == "requiredSkills" {
			return &ValidationError{Field: field, Message: MissingFieldsMessage}
		}
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s failed %s validation", field, fe.Tag())}
}

func fieldName(structField string) string {
	switch structField {
	case "OpportunityID":
		return "opportunityId"
	case "RequiredSkills":
		return "requiredSkills"
	case "TimelineWeeks":
		return "timelineWeeks"
	default:
		return structField
	}
}

func promptData(p *db.ExecutorProfile, req *types.FitScoreRequest) map[string]string {
	skills := "None listed"
	if len(p.Skills) > 0 {
		skills = strings.Join(p.Skills, ", ")
	}
	return map[string]string{
		"Skills":            skills,
		"CompletedProjects": strconv.Itoa(p.CompletedProjects),
		"TotalProjects":     strconv.Itoa(p.TotalProjects),
		"SuccessRate":       strconv.FormatFloat(p.SuccessRate(), 'f', -1, 64) + "%",
		"DeliverySpeed":     strconv.FormatFloat(p.AverageDeliverySpeed, 'f', -1, 64),
		"Reputation":        strconv.FormatFloat(p.ReputationScore, 'f', -1, 64),
		"ActiveProjects":    strconv.Itoa(p.ActiveProjectsCount),
		"RequiredSkills":    req.RequiredSkills.String(),
		"Timeline":          req.Timeline(),
	}
}

func llmResult(err error) string {
	var statusErr *llm.StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, llm.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, llm.ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.As(err, &statusErr):
		return "status_error"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
