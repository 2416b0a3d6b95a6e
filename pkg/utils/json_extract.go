package utils

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject pulls the first balanced JSON object out of an LLM reply,
// tolerating markdown fences and prose around it. ok is false when no valid
// object is found.
func ExtractJSONObject(response string) (string, bool) {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	for start := strings.IndexByte(response, '{'); start != -1; {
		end := findMatchingBrace(response, start)
		if end == -1 {
			return "", false
		}
		candidate := response[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
		next := strings.IndexByte(response[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// findMatchingBrace finds the closing brace for the '{' at start, skipping
// braces inside string literals.
func findMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
