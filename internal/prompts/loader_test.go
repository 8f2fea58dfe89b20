package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitScoreData() map[string]string {
	return map[string]string{
		"Skills":            "Go, PostgreSQL",
		"CompletedProjects": "8",
		"TotalProjects":     "10",
		"SuccessRate":       "80%",
		"DeliverySpeed":     "85",
		"Reputation":        "75",
		"ActiveProjects":    "2",
		"RequiredSkills":    "Go",
		"Timeline":          "6 weeks",
	}
}

// resetSets drops every parsed file and compiled template.
func resetSets() {
	setsMu.Lock()
	sets = make(map[string]*promptSet)
	setsMu.Unlock()
}

func TestGet_ValidPrompt(t *testing.T) {
	resetSets()

	prompt, err := Get(FitScoreFile, "score-fit")
	require.NoError(t, err)
	assert.Contains(t, prompt, "40% weight")
	assert.Contains(t, prompt, "25% weight")
	assert.Contains(t, prompt, "20% weight")
	assert.Contains(t, prompt, "15% weight")
	assert.Contains(t, prompt, "{{.Timeline}}")
}

func TestGet_SystemPrompt(t *testing.T) {
	prompt, err := Get(FitScoreFile, "system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "JSON")
}

func TestGet_Errors(t *testing.T) {
	resetSets()

	_, err := Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "failed to read prompt file")

	_, err = Get(FitScoreFile, "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestRender_FillsEveryPlaceholder(t *testing.T) {
	resetSets()

	prompt, err := Render(FitScoreFile, "score-fit", fitScoreData())
	require.NoError(t, err)
	assert.Contains(t, prompt, "Skills: Go, PostgreSQL")
	assert.Contains(t, prompt, "Completed projects: 8 of 10 (80% success rate)")
	assert.Contains(t, prompt, "Timeline: 6 weeks")
	assert.NotContains(t, prompt, "{{")
	assert.NotContains(t, prompt, "<no value>")
}

func TestRender_MissingValue(t *testing.T) {
	data := fitScoreData()
	delete(data, "Timeline")

	_, err := Render(FitScoreFile, "score-fit", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Timeline")
}

func TestRender_UnknownKey(t *testing.T) {
	_, err := Render(FitScoreFile, "missing", fitScoreData())
	assert.ErrorContains(t, err, `prompt key "missing" not found`)
}

func TestRender_CachesCompiledTemplate(t *testing.T) {
	resetSets()

	_, err := Render(FitScoreFile, "system", nil)
	require.NoError(t, err)

	set, err := load(FitScoreFile)
	require.NoError(t, err)
	assert.Len(t, set.templates, 1)

	_, err = Render(FitScoreFile, "system", nil)
	require.NoError(t, err)
	assert.Len(t, set.templates, 1)
}

func TestLoad_ReadsEveryKey(t *testing.T) {
	resetSets()

	set, err := load(FitScoreFile)
	require.NoError(t, err)
	assert.Contains(t, set.sources, "score-fit")
	assert.Contains(t, set.sources, "system")
}
