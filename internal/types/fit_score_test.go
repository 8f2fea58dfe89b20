package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SkillList
		wantErr  bool
	}{
		{
			name:     "array",
			input:    `["Go", "PostgreSQL"]`,
			expected: SkillList{"Go", "PostgreSQL"},
		},
		{
			name:     "single string",
			input:    `"React"`,
			expected: SkillList{"React"},
		},
		{
			name:     "comma separated string",
			input:    `"React, TypeScript ,  Node.js"`,
			expected: SkillList{"React", "TypeScript", "Node.js"},
		},
		{
			name:     "blanks and duplicates dropped",
			input:    `["Go", "", "go", "  SQL  "]`,
			expected: SkillList{"Go", "SQL"},
		},
		{
			name:     "null",
			input:    `null`,
			expected: nil,
		},
		{
			name:    "number",
			input:   `42`,
			wantErr: true,
		},
		{
			name:    "array of numbers",
			input:   `[1, 2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var skills SkillList
			err := json.Unmarshal([]byte(tt.input), &skills)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, skills)
		})
	}
}

func TestSkillList_String(t *testing.T) {
	assert.Equal(t, "Go, SQL", SkillList{"Go", "SQL"}.String())
	assert.Equal(t, "", SkillList{}.String())
}

func TestFitScoreRequest_Validate(t *testing.T) {
	weeks := 6.0
	zero := 0.0

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid with array", `{"opportunityId":"opp-1","requiredSkills":["Go"]}`, false},
		{"valid with string", `{"opportunityId":"opp-1","requiredSkills":"Go, SQL"}`, false},
		{"missing opportunity", `{"requiredSkills":["Go"]}`, true},
		{"missing skills", `{"opportunityId":"opp-1"}`, true},
		{"empty skills", `{"opportunityId":"opp-1","requiredSkills":[]}`, true},
		{"blank skills string", `{"opportunityId":"opp-1","requiredSkills":" , "}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req FitScoreRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			req.Normalize()
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("timeline must be positive", func(t *testing.T) {
		req := FitScoreRequest{OpportunityID: "opp", RequiredSkills: SkillList{"Go"}, TimelineWeeks: &zero}
		assert.Error(t, req.Validate())
		req.TimelineWeeks = &weeks
		assert.NoError(t, req.Validate())
	})
}

func TestFitScoreRequest_Timeline(t *testing.T) {
	req := FitScoreRequest{}
	assert.Equal(t, "Not specified", req.Timeline())

	weeks := 12.0
	req.TimelineWeeks = &weeks
	assert.Equal(t, "12 weeks", req.Timeline())
}

func TestFitScoreRequest_NormalizeTrimsOpportunity(t *testing.T) {
	req := FitScoreRequest{OpportunityID: "  opp-9 \n"}
	req.Normalize()
	assert.Equal(t, "opp-9", req.OpportunityID)
}
