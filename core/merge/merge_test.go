package merge

import (
	"slices"
	"testing"

	"github.com/plotloom/plotloom/core/model"
	"github.com/plotloom/plotloom/internal/formats/markdown"
)

func TestMergeOrder(t *testing.T) {
	tests := []struct {
		name   string
		target []string
		source []string
		want   []string
	}{
		{"insertion after predecessor", []string{"A", "B", "C"}, []string{"A", "D", "B", "C"}, []string{"A", "D", "B", "C"}},
		{"prepend when first", []string{"A", "B", "C"}, []string{"X", "A"}, []string{"X", "A", "B", "C"}},
		{"append when predecessor unknown", []string{"A"}, []string{"Y", "Z"}, []string{"Y", "A", "Z"}},
		{"empty source keeps target", []string{"A", "B"}, nil, []string{"A", "B"}},
		{"empty target takes source", nil, []string{"A", "B"}, []string{"A", "B"}},
		{"reorder in target survives", []string{"B", "A"}, []string{"A", "B"}, []string{"B", "A"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mergeOrder(tc.target, tc.source)
			if !slices.Equal(got, tc.want) {
				t.Errorf("mergeOrder(%v, %v) = %v, want %v", tc.target, tc.source, got, tc.want)
			}
		})
	}
}

func TestMergeWorldElementFallback(t *testing.T) {
	target := model.NewNovel()
	target.Locations["1"] = &model.WorldElement{
		BasicElement: model.BasicElement{Title: model.Str("Harbor"), Desc: model.Str("The old harbor."), KwVar: map[string]string{"Field_A": "1"}},
	}
	target.Locations["2"] = &model.WorldElement{
		BasicElement: model.BasicElement{Title: model.Str("Forgotten"), KwVar: map[string]string{}},
	}
	target.SrtLocations = []string{"1", "2"}

	source := model.NewNovel()
	source.Locations["1"] = &model.WorldElement{
		BasicElement: model.BasicElement{Title: model.Str("New Harbor"), KwVar: map[string]string{"Field_B": "2"}},
	}
	source.SrtLocations = []string{"1"}

	Merge(target, source)

	loc := target.Locations["1"]
	if loc.Title == nil || *loc.Title != "New Harbor" {
		t.Errorf("title = %v, want %q", loc.Title, "New Harbor")
	}
	// The source left Desc unset, so the target's value survives.
	if loc.Desc == nil || *loc.Desc != "The old harbor." {
		t.Errorf("desc = %v, want fallback from target", loc.Desc)
	}
	if loc.KwVar["Field_A"] != "1" || loc.KwVar["Field_B"] != "2" {
		t.Errorf("KwVar = %v, want both layers", loc.KwVar)
	}
	// The ordering is the source's: location 2 is gone.
	if !slices.Equal(target.SrtLocations, []string{"1"}) {
		t.Errorf("SrtLocations = %v, want [1]", target.SrtLocations)
	}
	if target.Locations["2"] != nil {
		t.Error("location absent from source should be dropped")
	}
}

func TestMergeWorldElementsAbsentFromSource(t *testing.T) {
	target := model.NewNovel()
	target.Items["1"] = &model.WorldElement{
		BasicElement: model.BasicElement{Title: model.Str("Compass"), KwVar: map[string]string{}},
	}
	target.SrtItems = []string{"1"}

	Merge(target, model.NewNovel())

	if len(target.SrtItems) != 1 || target.Items["1"] == nil {
		t.Error("a source without items must leave the target's items alone")
	}
}

func TestMergeSceneFields(t *testing.T) {
	target := model.NewNovel()
	target.Scenes["1"] = &model.Scene{
		BasicElement: model.BasicElement{Title: model.Str("Arrival"), KwVar: map[string]string{}},
		Goal:         model.Str("get home"),
	}
	target.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{KwVar: map[string]string{}},
		SrtScenes:    []string{"1"},
	}
	target.SrtChapters = []string{"1"}

	source := model.NewNovel()
	source.Scenes["1"] = &model.Scene{
		BasicElement: model.BasicElement{Title: model.Str(""), Desc: model.Str("Revised summary."), KwVar: map[string]string{}},
	}
	source.Scenes["2"] = &model.Scene{
		BasicElement: model.BasicElement{Title: model.Str("Departure"), KwVar: map[string]string{}},
	}
	source.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{KwVar: map[string]string{}},
		SrtScenes:    []string{"1", "2"},
	}
	source.SrtChapters = []string{"1"}

	Merge(target, source)

	sc := target.Scenes["1"]
	// An empty source title never clobbers the target's.
	if sc.Title == nil || *sc.Title != "Arrival" {
		t.Errorf("title = %v, want %q", sc.Title, "Arrival")
	}
	if sc.Desc == nil || *sc.Desc != "Revised summary." {
		t.Errorf("desc = %v, want source value", sc.Desc)
	}
	if sc.Goal == nil || *sc.Goal != "get home" {
		t.Errorf("goal = %v, want untouched target value", sc.Goal)
	}
	if target.Scenes["2"] == nil {
		t.Fatal("source-only scene not created")
	}
	if !slices.Equal(target.Chapters["1"].SrtScenes, []string{"1", "2"}) {
		t.Errorf("chapter scenes = %v, want [1 2]", target.Chapters["1"].SrtScenes)
	}
}

func TestMergeUneditedImportKeepsChapterShape(t *testing.T) {
	target := model.NewNovel()
	target.Scenes["1"] = &model.Scene{
		BasicElement: model.BasicElement{KwVar: map[string]string{}},
		Type:         model.Ptr(model.ClassNormal),
	}
	target.Scenes["1"].SetContent("The war began.")
	target.Chapters["1"] = &model.Chapter{
		BasicElement: model.BasicElement{Title: model.Str("The War Years"), KwVar: map[string]string{}},
		Level:        model.Ptr(model.LevelPart),
		Type:         model.Ptr(model.ClassNormal),
		SrtScenes:    []string{"1"},
	}
	target.SrtChapters = []string{"1"}

	// The interchange format carries no level or type, so parsing an
	// unedited export yields nil for both. Merging it back must not
	// reset what the source never stated.
	source, err := markdown.Parse("[ChID:1]\n# The War Years\n[ScID:1]\nThe war began.\n[/ScID]\n[/ChID]\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	Merge(target, source)

	ch := target.Chapters["1"]
	if got := ch.HeadingLevel(); got != model.LevelPart {
		t.Errorf("chapter level = %d, want %d (part kept)", got, model.LevelPart)
	}
	if got := ch.Classification(); got != model.ClassNormal {
		t.Errorf("chapter type = %d, want %d", got, model.ClassNormal)
	}
	if got := target.Scenes["1"].Classification(); got != model.ClassNormal {
		t.Errorf("scene type = %d, want %d", got, model.ClassNormal)
	}
}

func TestMergeReferenceFiltering(t *testing.T) {
	target := model.NewNovel()
	target.Characters["1"] = &model.Character{
		WorldElement: model.WorldElement{BasicElement: model.BasicElement{Title: model.Str("Ann"), KwVar: map[string]string{}}},
	}
	target.SrtCharacters = []string{"1"}
	target.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}

	source := model.NewNovel()
	source.Scenes["1"] = &model.Scene{
		BasicElement: model.BasicElement{KwVar: map[string]string{}},
		Characters:   []string{"1", "7"},
	}

	Merge(target, source)

	if got := target.Scenes["1"].Characters; !slices.Equal(got, []string{"1"}) {
		t.Errorf("characters = %v, want unresolved reference dropped", got)
	}
}

func TestMergeRehoming(t *testing.T) {
	target := model.NewNovel()
	target.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	target.Scenes["2"] = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	target.Chapters["1"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"1", "2"}}
	target.Chapters["2"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	target.SrtChapters = []string{"1", "2"}

	source := model.NewNovel()
	source.Chapters["2"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"2"}}
	source.SrtChapters = []string{"2"}

	Merge(target, source)

	if got := target.Chapters["1"].SrtScenes; !slices.Equal(got, []string{"1"}) {
		t.Errorf("chapter 1 scenes = %v, want scene 2 re-homed away", got)
	}
	if got := target.Chapters["2"].SrtScenes; !slices.Equal(got, []string{"2"}) {
		t.Errorf("chapter 2 scenes = %v, want [2]", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	build := func() (*model.Novel, *model.Novel) {
		target := model.NewNovel()
		target.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{Title: model.Str("One"), KwVar: map[string]string{}}}
		target.Chapters["1"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"1"}}
		target.SrtChapters = []string{"1"}

		source := model.NewNovel()
		source.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{Desc: model.Str("summary"), KwVar: map[string]string{}}}
		source.Scenes["2"] = &model.Scene{BasicElement: model.BasicElement{Title: model.Str("Two"), KwVar: map[string]string{}}}
		source.Chapters["1"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"1", "2"}}
		source.SrtChapters = []string{"1"}
		return target, source
	}

	once, src1 := build()
	Merge(once, src1)
	twice, src2 := build()
	Merge(twice, src2)
	Merge(twice, src2)

	if !slices.Equal(once.Chapters["1"].SrtScenes, twice.Chapters["1"].SrtScenes) {
		t.Errorf("scene order after second merge = %v, want %v", twice.Chapters["1"].SrtScenes, once.Chapters["1"].SrtScenes)
	}
	if !slices.Equal(once.SrtChapters, twice.SrtChapters) {
		t.Errorf("chapter order after second merge = %v, want %v", twice.SrtChapters, once.SrtChapters)
	}
	if len(once.Scenes) != len(twice.Scenes) {
		t.Errorf("scene count after second merge = %d, want %d", len(twice.Scenes), len(once.Scenes))
	}
}

func TestMergeContentTriggersSplit(t *testing.T) {
	target := model.NewNovel()
	target.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{Title: model.Str("Long scene"), KwVar: map[string]string{}}}
	target.Chapters["1"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"1"}}
	target.SrtChapters = []string{"1"}

	source := model.NewNovel()
	source.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	source.Scenes["1"].SetContent("First half.\n### Second Half\nSecond half.")

	didSplit := Merge(target, source)
	if !didSplit {
		t.Fatal("Merge = false, want split on marker in contributed content")
	}
	if len(target.Scenes) != 2 {
		t.Errorf("scenes = %d, want 2 after split", len(target.Scenes))
	}
	if got := target.Scenes["1"].Content; got == nil || *got != "First half." {
		t.Errorf("scene 1 content = %v, want %q", got, "First half.")
	}
}

func TestMergeWithoutContentSkipsSplit(t *testing.T) {
	target := model.NewNovel()
	target.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	target.Scenes["1"].SetContent("Body.\n### marker would split\nMore.")
	target.Chapters["1"] = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}, SrtScenes: []string{"1"}}
	target.SrtChapters = []string{"1"}

	source := model.NewNovel()
	source.Scenes["1"] = &model.Scene{BasicElement: model.BasicElement{Desc: model.Str("metadata only"), KwVar: map[string]string{}}}

	if didSplit := Merge(target, source); didSplit {
		t.Error("Merge = true, want no split when no content was contributed")
	}
}
