package tui

import (
	"encoding/json"
	"strings"
)

// HighlightJSONLine colors the key of a JSON line and its brackets
func HighlightJSONLine(line string) string {
	if line == "" {
		return line
	}

	// find leading whitespace
	leadingWhitespace := ""
	contentStart := 0
	for i, r := range line {
		if r != ' ' && r != '\t' {
			leadingWhitespace = line[:i]
			contentStart = i
			break
		}
	}

	trimmedLine := strings.TrimRight(line, " \t\r\n")
	trailingWhitespace := line[len(trimmedLine):]
	content := trimmedLine[contentStart:]

	// look for JSON key-value pattern: "key":
	if idx := strings.Index(content, "\":"); idx > 0 {
		keyStart := strings.LastIndex(content[:idx], "\"")
		if keyStart >= 0 {
			beforeKey := content[:keyStart]
			keyPart := content[keyStart : idx+2] // includes quotes and colon
			valuePart := content[idx+2:]

			styledContent := styleBrackets(beforeKey) + SyntaxKeyStyle.Render(keyPart) + styleValue(valuePart)
			return leadingWhitespace + styledContent + trailingWhitespace
		}
	}

	return leadingWhitespace + styleValue(content) + trailingWhitespace
}

// styleValue colors numeric values yellow, everything else goes through styleBrackets
func styleValue(text string) string {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ","))
	if trimmed == "" || !isNumber(trimmed) {
		return styleBrackets(text)
	}
	idx := strings.Index(text, trimmed)
	return text[:idx] + SyntaxNumberStyle.Render(trimmed) + text[idx+len(trimmed):]
}

func isNumber(s string) bool {
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == 'e', r == 'E', r == '+':
		case r == '-' && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			return false
		}
	}
	return true
}

// styleBrackets styles { } characters in pink and [ ] characters in yellow while leaving everything else unstyled
func styleBrackets(text string) string {
	if text == "" {
		return text
	}

	var result strings.Builder
	for _, r := range text {
		if r == '{' || r == '}' {
			result.WriteString(SyntaxDashStyle.Render(string(r)))
		} else if r == '[' || r == ']' {
			result.WriteString(SyntaxNumberStyle.Render(string(r)))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// HighlightJSON indents v as JSON and highlights every line
func HighlightJSON(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		lines[i] = HighlightJSONLine(line)
	}
	return strings.Join(lines, "\n"), nil
}
