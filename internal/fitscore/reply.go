package fitscore

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/kickinn/kickinn-api/internal/db"
	"github.com/kickinn/kickinn-api/internal/llm"
	"github.com/kickinn/kickinn-api/internal/schemas"
)

// Rubric weights in percent; they sum to 100.
const (
	WeightSkillsMatch   = 40
	WeightExperience    = 25
	WeightSuccessRate   = 20
	WeightDeliverySpeed = 15
)

// maxOverallDeviation is how far the model's own overall may drift from the weighted sum before it is logged.
const maxOverallDeviation = 10

type replyPart struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// reply is the JSON object the model is asked to return.
type reply struct {
	OverallScore  float64   `json:"overall_score"`
	SkillsMatch   replyPart `json:"skills_match"`
	Experience    replyPart `json:"experience"`
	SuccessRate   replyPart `json:"success_rate"`
	DeliverySpeed replyPart `json:"delivery_speed"`
}

// parseReply strips an optional code fence, checks the reply against the
// schema and decodes it.
func parseReply(raw string) (*reply, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("empty response")}
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("response is not valid JSON")}
	}
	if err := schemas.ValidateFitScoreReply(cleaned); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	var r reply
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return &r, nil
}

// clampScore rounds to the nearest integer within 0..100.
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// WeightedOverall combines clamped sub-scores with the rubric weights.
func WeightedOverall(skills, experience, successRate, deliverySpeed int) int {
	sum := WeightSkillsMatch*skills +
		WeightExperience*experience +
		WeightSuccessRate*successRate +
		WeightDeliverySpeed*deliverySpeed
	return clampScore(float64(sum) / 100)
}

// toFitScore builds the row to persist. The second return value is the
// absolute difference between the model's overall and the weighted one.
func (r *reply) toFitScore(opportunityID string, executorID uuid.UUID) (*db.FitScore, int) {
	s := &db.FitScore{
		OpportunityID:            opportunityID,
		ExecutorID:               executorID,
		SkillsMatchScore:         clampScore(r.SkillsMatch.Score),
		SkillsMatchExplanation:   r.SkillsMatch.Explanation,
		ExperienceScore:          clampScore(r.Experience.Score),
		ExperienceExplanation:    r.Experience.Explanation,
		SuccessRateScore:         clampScore(r.SuccessRate.Score),
		SuccessRateExplanation:   r.SuccessRate.Explanation,
		DeliverySpeedScore:       clampScore(r.DeliverySpeed.Score),
		DeliverySpeedExplanation: r.DeliverySpeed.Explanation,
	}
	s.OverallScore = WeightedOverall(s.SkillsMatchScore, s.ExperienceScore, s.SuccessRateScore, s.DeliverySpeedScore)

	deviation := clampScore(r.OverallScore) - s.OverallScore
	if deviation < 0 {
		deviation = -deviation
	}
	return s, deviation
}
