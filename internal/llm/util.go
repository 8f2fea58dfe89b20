// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes a markdown code fence around a JSON reply.
// Models often wrap JSON in ```json ... ``` even when told not to.
// Text without a leading fence is returned trimmed and otherwise unchanged.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the opening line (json, JSON, javascript...)
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		} else {
			text = trimLanguageTag(text)
		}
	} else {
		text = trimLanguageTag(text)
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// trimLanguageTag drops a "json" tag that shares its line with the payload.
func trimLanguageTag(text string) string {
	trimmed := strings.TrimLeft(text, " \t")
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "json") {
		return trimmed[4:]
	}
	return text
}
