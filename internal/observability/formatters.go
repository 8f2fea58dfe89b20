// Package observability provides human-readable output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kickinn/kickinn-api/internal/db"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSkillsToShow is the number of profile skills listed before eliding
	maxSkillsToShow = 8
	// barWidth is the number of cells in a score bar
	barWidth = 20
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %-*s │\n", inner, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFitScore outputs the overall score and each weighted component.
func (p *Printer) PrintFitScore(score *db.FitScore, cached bool) {
	if score == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Opportunity: %s\n", score.OpportunityID)
	fmt.Fprintf(&sb, "Executor:    %s\n", score.ExecutorID)
	source := "computed"
	if cached {
		source = "cached"
	}
	fmt.Fprintf(&sb, "Overall:     %d/100 (%s)\n", score.OverallScore, source)

	components := []struct {
		label       string
		weight      int
		score       int
		explanation string
	}{
		{"Skills match", 40, score.SkillsMatchScore, score.SkillsMatchExplanation},
		{"Experience", 25, score.ExperienceScore, score.ExperienceExplanation},
		{"Success rate", 20, score.SuccessRateScore, score.SuccessRateExplanation},
		{"Delivery speed", 15, score.DeliverySpeedScore, score.DeliverySpeedExplanation},
	}
	for _, c := range components {
		fmt.Fprintf(&sb, "\n%-14s %3d %s %d%%\n", c.label, c.score, bar(c.score), c.weight)
		if c.explanation != "" {
			fmt.Fprintf(&sb, "  %s\n", c.explanation)
		}
	}

	p.printBox("FIT SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the executor track record the score was based on.
func (p *Printer) PrintProfile(profile *db.ExecutorProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	skills := "None listed"
	if len(profile.Skills) > 0 {
		shown := profile.Skills
		if len(shown) > maxSkillsToShow {
			shown = shown[:maxSkillsToShow]
		}
		skills = strings.Join(shown, ", ")
		if extra := len(profile.Skills) - len(shown); extra > 0 {
			skills += fmt.Sprintf(" ... and %d more", extra)
		}
	}
	fmt.Fprintf(&sb, "Skills:          %s\n", skills)
	fmt.Fprintf(&sb, "Projects:        %d completed of %d\n", profile.CompletedProjects, profile.TotalProjects)
	fmt.Fprintf(&sb, "Active projects: %d\n", profile.ActiveProjectsCount)
	fmt.Fprintf(&sb, "Delivery speed:  %.0f\n", profile.AverageDeliverySpeed)
	fmt.Fprintf(&sb, "Reputation:      %.0f", profile.ReputationScore)

	p.printBox("EXECUTOR PROFILE", sb.String())
}

// bar renders a 0-100 score as a fixed-width gauge.
func bar(score int) string {
	score = max(0, min(100, score))
	filled := score * barWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

// wrap breaks line on spaces so that no piece exceeds width runes.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if len(indent) >= width/2 {
		indent = ""
	}
	var (
		out     []string
		current string
	)
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > width-len(indent) {
			if current != "" {
				out = append(out, current)
				current = ""
			}
			runes := []rune(word)
			out = append(out, indent+string(runes[:width-len(indent)]))
			word = string(runes[width-len(indent):])
		}
		switch {
		case current == "":
			current = indent + word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
