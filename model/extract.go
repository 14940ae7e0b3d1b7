package model

import (
	"encoding/json"
	"strings"
)

// Extraction is the outcome of a best-effort JSON parse over free-form model
// output. Parsed reports whether Value holds a decoded object; otherwise
// callers degrade to Raw instead of failing the request.
type Extraction struct {
	Value  map[string]any
	Raw    string
	Parsed bool
}

// ExtractJSON pulls the first JSON object out of free text. It tries, in
// order: the whole text, a fenced ```json block, and the outermost balanced
// {...} span. Anything unparsable yields a fallback carrying the raw text.
func ExtractJSON(text string) Extraction {
	trimmed := strings.TrimSpace(text)

	for _, candidate := range []string{trimmed, fencedBlock(trimmed), bracedSpan(trimmed)} {
		if candidate == "" {
			continue
		}
		var value map[string]any
		if err := json.Unmarshal([]byte(candidate), &value); err == nil {
			return Extraction{Value: value, Raw: text, Parsed: true}
		}
	}

	return Extraction{Raw: text}
}

// fencedBlock returns the body of the first ```json (or bare ```) fence.
func fencedBlock(text string) string {
	start := strings.Index(text, "```")
	if start == -1 {
		return ""
	}
	rest := text[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// bracedSpan returns the outermost balanced object span, quote-aware.
func bracedSpan(text string) string {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
