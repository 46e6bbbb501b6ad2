package model

import (
	"os"
	"regexp"
	"strings"
)

var languageTag = regexp.MustCompile(`\[lang=(.*?)\]`)

// DetectLanguages scans all scene content for [lang=xx] tags and records the
// distinct codes, in order of first appearance, on n.Languages.
func (n *Novel) DetectLanguages() {
	n.Languages = []string{}
	seen := map[string]bool{}
	for _, scID := range n.sceneIDsInOrder() {
		sc := n.Scenes[scID]
		if sc == nil || sc.Content == nil {
			continue
		}
		for _, m := range languageTag.FindAllStringSubmatch(*sc.Content, -1) {
			if code := m[1]; code != "" && !seen[code] {
				seen[code] = true
				n.Languages = append(n.Languages, code)
			}
		}
	}
}

// sceneIDsInOrder yields scene IDs chapter by chapter, then any scenes not
// reachable from a chapter, so detection order is deterministic.
func (n *Novel) sceneIDsInOrder() []string {
	var ids []string
	seen := map[string]bool{}
	for _, chID := range n.SrtChapters {
		ch := n.Chapters[chID]
		if ch == nil {
			continue
		}
		for _, scID := range ch.SrtScenes {
			if !seen[scID] {
				seen[scID] = true
				ids = append(ids, scID)
			}
		}
	}
	for id := range n.Scenes {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// CheckLocale makes sure the project carries a plausible language/country
// pair. A missing pair is filled from the process environment; a malformed
// one falls back to the "no linguistic content" codes.
func (n *Novel) CheckLocale() {
	if n.LanguageCode == nil || *n.LanguageCode == "" {
		lang, ctry := systemLocale()
		n.LanguageCode = &lang
		n.CountryCode = &ctry
		return
	}
	if len(*n.LanguageCode) == 2 && n.CountryCode != nil && len(*n.CountryCode) == 2 {
		return
	}
	n.LanguageCode = Str("zxx")
	n.CountryCode = Str("none")
}

// systemLocale derives a language/country pair from LANG-style environment
// variables (e.g. "en_US.UTF-8").
func systemLocale() (lang, country string) {
	for _, key := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		if l, c, ok := strings.Cut(v, "_"); ok && len(l) == 2 && len(c) == 2 {
			return l, c
		}
	}
	return "zxx", "none"
}
