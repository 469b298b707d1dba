// Package cardtext derives display fields (name, type line, rules, flavor,
// colours, set order) from CardConjurer card-face JSON.
//
// Every function is pure: inputs are never modified and missing or
// wrong-typed data degrades to empty output instead of an error.
package cardtext

import (
	"regexp"
	"strings"
)

// Face is one decoded card face as saved by the CardConjurer editor.
type Face map[string]any

var (
	symbolTag      = regexp.MustCompile(`\{[^}]+\}`)
	italicOpen     = regexp.MustCompile(`(?i)\{i\}`)
	italicClose    = regexp.MustCompile(`(?i)\{/i\}`)
	dividerTag     = regexp.MustCompile(`(?i)\{divider\}`)
	italicTagPairs = regexp.MustCompile(`(?i)\{/?i\}`)
)

// Field returns face.text[key].text, or "" if any level is absent or not
// the expected type.
func Field(face Face, key string) string {
	texts, ok := face["text"].(map[string]any)
	if !ok {
		return ""
	}
	entry, ok := texts[key].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := entry["text"].(string)
	return s
}

// Text returns the normalised value of a text field: trimmed, with an
// unclosed {i} closed at the end of its line and {divider} turned into a
// line break.
func Text(face Face, key string) string {
	return normalize(Field(face, key))
}

// Name returns the card title with symbol tags removed.
func Name(face Face) string {
	return normalize(symbolTag.ReplaceAllString(Field(face, "title"), ""))
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = closeItalics(s)
	return dividerTag.ReplaceAllString(s, "\n")
}

// closeItalics appends {/i} to any line holding an {i} that is not followed
// by a {/i} later on the same line.
func closeItalics(s string) string {
	if !italicOpen.MatchString(s) {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		for _, loc := range italicOpen.FindAllStringIndex(line, -1) {
			if !italicClose.MatchString(line[loc[1]:]) {
				lines[i] = line + "{/i}"
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// list returns face[obj][key] when both levels exist and the value is a
// JSON array.
func list(face Face, obj, key string) ([]any, bool) {
	m, ok := face[obj].(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	l, ok := m[key].([]any)
	return l, ok
}

// count returns face[obj][key] as a positive integer.
func count(face Face, obj, key string) (int, bool) {
	m, ok := face[obj].(map[string]any)
	if !ok {
		return 0, false
	}
	var n int
	switch v := m[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	default:
		return 0, false
	}
	return n, n > 0
}
