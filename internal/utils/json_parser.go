package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotAnObject is returned when AI output parses but is not a JSON object
var ErrNotAnObject = errors.New("AI output is not a JSON object")

var (
	fencedJSONPattern   = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedPattern       = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
	trailingCommaRegexp = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRegexp   = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharRegexp   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON extracts and parses JSON from completion output that may contain:
// - Pure JSON
// - JSON wrapped in markdown code blocks (```json ... ```)
// - JSON with surrounding text
// - Slightly malformed JSON (trailing commas, unquoted keys, single quotes)
func ParseAIJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
		if cleaned := cleanAndFixJSON(extracted); cleaned != "" {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if cleaned := cleanAndFixJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

// ParseAIObject parses completion output that must be a JSON object.
// A bare array, string or null is rejected with ErrNotAnObject.
func ParseAIObject(input string) (map[string]any, error) {
	var raw any
	if err := ParseAIJSON(input, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		// The first balanced object may still hide behind leading prose
		if extracted := extractJSONFromText(input); extracted != "" {
			if err := json.Unmarshal([]byte(extracted), &obj); err == nil && obj != nil {
				return obj, nil
			}
		}
		return nil, ErrNotAnObject
	}
	return obj, nil
}

// extractFromMarkdown extracts JSON from markdown code blocks
// Supports: ```json {...} ```, ```{...}```, or ```\n{...}\n```
func extractFromMarkdown(input string) string {
	if matches := fencedJSONPattern.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fencedPattern.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractJSONFromText finds the first JSON object, or failing that array, in surrounding text
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}

	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}

	return ""
}

// extractBalancedBraces extracts content with balanced braces, ignoring braces inside strings
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanAndFixJSON attempts to fix common JSON formatting issues
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")

	s = trailingCommaRegexp.ReplaceAllString(s, "$1")

	// {word: "value"} -> {"word": "value"}
	s = unquotedKeyRegexp.ReplaceAllString(s, `$1"$2"$3`)

	s = fixSingleQuotes(s)

	return controlCharRegexp.ReplaceAllString(s, "")
}

// fixSingleQuotes converts single quotes that delimit keys or values into
// double quotes, leaving apostrophes inside words and double-quoted strings alone
func fixSingleQuotes(input string) string {
	runes := []rune(input)
	var result strings.Builder
	inDoubleQuote := false
	escape := false

	for i, ch := range runes {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inDoubleQuote = !inDoubleQuote
		case ch == '\'' && !inDoubleQuote:
			if strings.ContainsRune(":,[{", neighbour(runes, i, -1)) || strings.ContainsRune(":,]}", neighbour(runes, i, 1)) {
				ch = '"'
			}
		}
		result.WriteRune(ch)
	}

	return result.String()
}

// neighbour returns the closest non-space rune before (dir -1) or after (dir 1) position i,
// or '{' at the edges so that leading and trailing quotes are converted
func neighbour(runes []rune, i, dir int) rune {
	for j := i + dir; j >= 0 && j < len(runes); j += dir {
		if runes[j] != ' ' && runes[j] != '\t' && runes[j] != '\n' {
			return runes[j]
		}
	}
	return '{'
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
