// Package types provides request and response definitions shared by the HTTP API and the CLI.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SkillList is a set of required skills. On the wire it is either a JSON
// array of strings or a single comma-separated string.
type SkillList []string

// UnmarshalJSON accepts both `["Go","SQL"]` and `"Go, SQL"`.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("requiredSkills must be an array of strings: %w", err)
		}
		*s = normalizeSkills(items)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("requiredSkills must be a string or an array of strings: %w", err)
	}
	*s = ParseSkills(single)
	return nil
}

// String renders the skills the way they are presented to the model.
func (s SkillList) String() string {
	return strings.Join(s, ", ")
}

// ParseSkills splits a comma-separated list, dropping blanks and duplicates.
func ParseSkills(raw string) SkillList {
	return normalizeSkills(strings.Split(raw, ","))
}

func normalizeSkills(items []string) SkillList {
	seen := make(map[string]bool, len(items))
	out := make(SkillList, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// FitScoreRequest is the body of POST /fit-scores.
type FitScoreRequest struct {
	OpportunityID  string    `json:"opportunityId" validate:"required,max=200"`
	RequiredSkills SkillList `json:"requiredSkills" validate:"required,min=1,dive,max=100"`
	TimelineWeeks  *float64  `json:"timelineWeeks,omitempty" validate:"omitempty,gt=0,lte=520"`
}

// Normalize trims identifiers in place.
func (r *FitScoreRequest) Normalize() {
	r.OpportunityID = strings.TrimSpace(r.OpportunityID)
}

// Validate validates the FitScoreRequest using the validator.
func (r *FitScoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Timeline renders the timeline for prompts.
func (r *FitScoreRequest) Timeline() string {
	if r.TimelineWeeks == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%g weeks", *r.TimelineWeeks)
}

// FitScoreResponse is the success body of POST /fit-scores.
type FitScoreResponse struct {
	Success  bool `json:"success"`
	FitScore any  `json:"fitScore"`
	Cached   bool `json:"cached"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
