package model

import "strings"

// StringToList splits a semicolon-separated tag string into a list of
// trimmed, de-duplicated elements.
func StringToList(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part != "" && !seen[part] {
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// ListToString joins list elements with semicolons for storage.
func ListToString(elements []string) string {
	return strings.Join(elements, ";")
}
