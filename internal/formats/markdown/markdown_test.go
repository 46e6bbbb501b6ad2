package markdown

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/plotloom/plotloom/core/model"
)

func sampleNovel() *model.Novel {
	novel := model.NewNovel()

	sc1 := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	sc1.SetContent("She came home.\nThe harbor was quiet.")
	novel.Scenes["1"] = sc1

	sc2 := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}, Type: model.Ptr(model.ClassNotes)}
	sc2.SetContent("planning notes")
	novel.Scenes["2"] = sc2

	sc3 := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	sc3.SetContent("She left again.")
	novel.Scenes["3"] = sc3

	novel.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("Chapter One"), KwVar: map[string]string{}},
		SrtScenes:    []string{"1", "2", "3"},
	}
	novel.Chapters["2"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("Research"), KwVar: map[string]string{}},
		Type:         model.Ptr(model.ClassNotes),
	}
	novel.SrtChapters = []string{"1", "2"}
	return novel
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novel"+Extension)
	if err := Write(path, sampleNovel()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !slices.Equal(got.SrtChapters, []string{"1"}) {
		t.Errorf("SrtChapters = %v, want only the normal chapter", got.SrtChapters)
	}
	if !slices.Equal(got.Chapters["1"].SrtScenes, []string{"1", "3"}) {
		t.Errorf("scenes = %v, want notes scene excluded", got.Chapters["1"].SrtScenes)
	}
	if c := got.Scenes["1"].Content; c == nil || *c != "She came home.\nThe harbor was quiet." {
		t.Errorf("scene 1 content = %v, want original text", c)
	}
	if got.Scenes["2"] != nil {
		t.Error("notes scene leaked into the interchange copy")
	}
}

func TestWriteHeadings(t *testing.T) {
	novel := model.NewNovel()
	sc := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	sc.SetContent("text")
	novel.Scenes["1"] = sc
	novel.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("The War Years"), KwVar: map[string]string{}},
		Level:        model.Ptr(model.LevelPart),
		SrtScenes:    []string{"1"},
	}
	novel.Chapters["2"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("The Storm"), KwVar: map[string]string{}},
	}
	novel.SrtChapters = []string{"1", "2"}

	path := filepath.Join(t.TempDir(), "novel"+Extension)
	if err := Write(path, novel); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "# The War Years\n") || strings.Contains(text, "## The War Years") {
		t.Error("part should render as a single-hash heading")
	}
	if !strings.Contains(text, "## The Storm\n") {
		t.Error("chapter should render as a double-hash heading")
	}
}

func TestRoundTripKeepsTrailingNewline(t *testing.T) {
	novel := model.NewNovel()
	sc := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	sc.SetContent("She came home.\n")
	novel.Scenes["1"] = sc
	novel.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{KwVar: map[string]string{}},
		SrtScenes:    []string{"1"},
	}
	novel.SrtChapters = []string{"1"}

	path := filepath.Join(t.TempDir(), "novel"+Extension)
	if err := Write(path, novel); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c := got.Scenes["1"].Content; c == nil || *c != "She came home.\n" {
		t.Errorf("content = %v, want trailing newline kept", c)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unclosed scene", "[ChID:1]\n[ScID:1]\ntext\n[/ChID]\n"},
		{"unclosed chapter", "[ChID:1]\n[ScID:1]\ntext\n[/ScID]\n"},
		{"scene close without open", "[/ScID]\n"},
		{"chapter close without open", "[/ChID]\n"},
		{"nested scene open", "[ScID:1]\n[ScID:2]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.text); err == nil {
				t.Error("Parse succeeded, want error")
			}
		})
	}
}

func TestParseIgnoresHeadings(t *testing.T) {
	novel, err := Parse("[ChID:1]\n## Chapter One\n[ScID:1]\nBody.\n[/ScID]\n[/ChID]\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c := novel.Scenes["1"].Content; c == nil || *c != "Body." {
		t.Errorf("content = %v, want heading excluded from scene text", c)
	}
}
