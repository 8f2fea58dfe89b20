// Package prompts holds the model prompts as embedded JSON files of named text/template sources.
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"
	"text/template"
)

// FitScoreFile holds the fit-score system and user prompts.
const FitScoreFile = "fit_score.json"

//go:embed *.json
var promptFiles embed.FS

// promptSet is one parsed prompt file. Templates are compiled on first render.
type promptSet struct {
	sources map[string]string

	mu        sync.Mutex
	templates map[string]*template.Template
}

var (
	setsMu sync.Mutex
	sets   = make(map[string]*promptSet)
)

// Get returns the raw source of a prompt.
func Get(filename, key string) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	src, ok := set.sources[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return src, nil
}

// Render executes a prompt with data. Every {{.Field}} must resolve; a missing map key is an error.
func Render(filename, key string, data any) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	tmpl, err := set.template(filename, key)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s/%s: %w", filename, key, err)
	}
	return buf.String(), nil
}

func load(filename string) (*promptSet, error) {
	setsMu.Lock()
	defer setsMu.Unlock()

	if set, ok := sets[filename]; ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var sources map[string]string
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	set := &promptSet{sources: sources, templates: make(map[string]*template.Template)}
	sets[filename] = set
	return set, nil
}

func (p *promptSet) template(filename, key string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tmpl, ok := p.templates[key]; ok {
		return tmpl, nil
	}
	src, ok := p.sources[key]
	if !ok {
		return nil, fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	tmpl, err := template.New(key).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("compile prompt %s/%s: %w", filename, key, err)
	}
	p.templates[key] = tmpl
	return tmpl, nil
}
