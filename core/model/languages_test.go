package model

import (
	"reflect"
	"testing"
)

func TestDetectLanguages(t *testing.T) {
	n := NewNovel()
	n.Chapters["1"] = &Chapter{SrtScenes: []string{"1", "2"}}
	n.SrtChapters = []string{"1"}
	s1 := &Scene{}
	s1.SetContent("Hello [lang=de]Welt[/lang=de] and [lang=fr]monde[/lang=fr].")
	s2 := &Scene{}
	s2.SetContent("Again [lang=de]ja[/lang=de].")
	n.Scenes["1"] = s1
	n.Scenes["2"] = s2

	n.DetectLanguages()

	want := []string{"de", "fr"}
	if !reflect.DeepEqual(n.Languages, want) {
		t.Errorf("Languages = %v, want %v", n.Languages, want)
	}
}

func TestDetectLanguagesNoTags(t *testing.T) {
	n := NewNovel()
	sc := &Scene{}
	sc.SetContent("plain text only")
	n.Scenes["1"] = sc
	n.DetectLanguages()
	if len(n.Languages) != 0 {
		t.Errorf("Languages = %v, want empty", n.Languages)
	}
}

func TestCheckLocaleFallback(t *testing.T) {
	n := NewNovel()
	n.LanguageCode = Str("german") // not a 2-letter code
	n.CountryCode = Str("DE")
	n.CheckLocale()
	if *n.LanguageCode != "zxx" || *n.CountryCode != "none" {
		t.Errorf("locale = %s/%s, want zxx/none", *n.LanguageCode, *n.CountryCode)
	}
}

func TestCheckLocaleFromEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "fr_FR.UTF-8")
	n := NewNovel()
	n.CheckLocale()
	if *n.LanguageCode != "fr" || *n.CountryCode != "FR" {
		t.Errorf("locale = %s/%s, want fr/FR", *n.LanguageCode, *n.CountryCode)
	}
}

func TestCheckLocaleKeepsValidPair(t *testing.T) {
	n := NewNovel()
	n.LanguageCode = Str("en")
	n.CountryCode = Str("US")
	n.CheckLocale()
	if *n.LanguageCode != "en" || *n.CountryCode != "US" {
		t.Errorf("locale = %s/%s, want en/US", *n.LanguageCode, *n.CountryCode)
	}
}
