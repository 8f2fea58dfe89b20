package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// ExecutorProfile is an executor's track record used as scoring input.
type ExecutorProfile struct {
	ID                   uuid.UUID   `json:"id"`
	UserID               uuid.UUID   `json:"user_id"`
	Skills               StringArray `json:"skills"`
	CompletedProjects    int         `json:"completed_projects"`
	TotalProjects        int         `json:"total_projects"`
	AverageDeliverySpeed float64     `json:"average_delivery_speed"`
	ReputationScore      float64     `json:"reputation_score"`
	ActiveProjectsCount  int         `json:"active_projects_count"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// SuccessRate is completed/total as a percentage, 0 when there is no history.
func (p *ExecutorProfile) SuccessRate() float64 {
	if p.TotalProjects <= 0 {
		return 0
	}
	return math.Round(float64(p.CompletedProjects) / float64(p.TotalProjects) * 100)
}

// FitScore is a stored opportunity/executor fit assessment. Rows are immutable.
type FitScore struct {
	ID                       uuid.UUID `json:"id"`
	OpportunityID            string    `json:"opportunity_id"`
	ExecutorID               uuid.UUID `json:"executor_id"`
	OverallScore             int       `json:"overall_score"`
	SkillsMatchScore         int       `json:"skills_match_score"`
	SkillsMatchExplanation   string    `json:"skills_match_explanation"`
	ExperienceScore          int       `json:"experience_score"`
	ExperienceExplanation    string    `json:"experience_explanation"`
	SuccessRateScore         int       `json:"success_rate_score"`
	SuccessRateExplanation   string    `json:"success_rate_explanation"`
	DeliverySpeedScore       int       `json:"delivery_speed_score"`
	DeliverySpeedExplanation string    `json:"delivery_speed_explanation"`
	CreatedAt                time.Time `json:"created_at"`
}

// StringArray handles JSON string arrays stored as JSONB (Postgres) or TEXT (SQLite)
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	var source []byte
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("type assertion to []byte or string failed")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
