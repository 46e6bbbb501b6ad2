package model

import "testing"

func TestCountContent(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		words   int
		letters int
	}{
		{"plain", "The quick brown fox", 4, 19},
		{"markup stripped", "Hello [i]world[/i].", 2, 12},
		{"comment stripped", "Before /*note to self*/ after", 2, 13},
		{"em dash splits words", "day—night", 2, 9},
		{"double hyphen splits words", "day--night", 2, 10},
		{"quote marker not a word", "> quoted line", 2, 13},
		{"newlines are not letters", "one\ntwo", 2, 6},
		{"empty", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, letters := CountContent(tt.text)
			if words != tt.words {
				t.Errorf("words = %d, want %d", words, tt.words)
			}
			if letters != tt.letters {
				t.Errorf("letters = %d, want %d", letters, tt.letters)
			}
		})
	}
}

func TestSetContent(t *testing.T) {
	sc := &Scene{}
	sc.SetContent("Hello [i]world[/i].")
	if sc.Content == nil || *sc.Content != "Hello [i]world[/i]." {
		t.Fatalf("Content not stored verbatim")
	}
	if sc.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", sc.WordCount)
	}
	if sc.LetterCount != 12 {
		t.Errorf("LetterCount = %d, want 12", sc.LetterCount)
	}
}
