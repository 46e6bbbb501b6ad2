package scenelist

import (
	"path/filepath"
	"testing"

	"github.com/plotloom/plotloom/core/model"
	"github.com/plotloom/plotloom/internal/sqlite"
)

func exportedNovel() *model.Novel {
	novel := model.NewNovel()
	novel.Title = model.Str("Harbor Lights")
	novel.AuthorName = model.Str("Jane Doe")

	sc1 := &model.Scene{
		BasicElement: model.BasicElement{Title: model.Str("Arrival"), KwVar: map[string]string{}},
		Status:       model.Int(model.StatusDraft),
		Tags:         []string{"harbor", "homecoming"},
		Characters:   []string{"1"},
	}
	sc1.SetContent("She came home.")
	novel.Scenes["1"] = sc1
	sc2 := &model.Scene{BasicElement: model.BasicElement{Title: model.Str("Departure"), KwVar: map[string]string{}}}
	novel.Scenes["2"] = sc2

	novel.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("Chapter One"), KwVar: map[string]string{}},
		SrtScenes:    []string{"1", "2"},
	}
	novel.SrtChapters = []string{"1"}

	novel.Characters["1"] = &model.Character{
		WorldElement: model.WorldElement{BasicElement: model.BasicElement{Title: model.Str("Ann"), KwVar: map[string]string{}}},
		FullName:     model.Str("Ann Smith"),
		IsMajor:      model.Bool(true),
	}
	novel.SrtCharacters = []string{"1"}
	novel.Locations["1"] = &model.WorldElement{BasicElement: model.BasicElement{Title: model.Str("Harbor"), KwVar: map[string]string{}}}
	novel.SrtLocations = []string{"1"}
	return novel
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	if err := Export(path, exportedNovel()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open exported database: %v", err)
	}
	defer db.Close()

	var title, author string
	if err := db.QueryRow(`SELECT title, author FROM project`).Scan(&title, &author); err != nil {
		t.Fatalf("project row: %v", err)
	}
	if title != "Harbor Lights" || author != "Jane Doe" {
		t.Errorf("project = %q by %q, want sample values", title, author)
	}

	counts := map[string]int{"chapters": 1, "scenes": 2, "characters": 1, "locations": 1, "scene_characters": 1}
	for table, want := range counts {
		var got int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var tags string
	var words int
	if err := db.QueryRow(`SELECT tags, word_count FROM scenes WHERE id = '1'`).Scan(&tags, &words); err != nil {
		t.Fatalf("scene row: %v", err)
	}
	if tags != "harbor;homecoming" {
		t.Errorf("tags = %q, want %q", tags, "harbor;homecoming")
	}
	if words != 3 {
		t.Errorf("word_count = %d, want 3", words)
	}

	var status any
	if err := db.QueryRow(`SELECT status FROM scenes WHERE id = '2'`).Scan(&status); err != nil {
		t.Fatalf("scene 2 row: %v", err)
	}
	if status != nil {
		t.Errorf("status = %v, want NULL for an unset status", status)
	}
}

func TestExportReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")
	if err := Export(path, exportedNovel()); err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	// A second export must not fail on the already created schema.
	if err := Export(path, exportedNovel()); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
}
