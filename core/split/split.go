// Package split expands inline structural markers inside scene text into
// real chapters and scenes. It runs as the last merge step, after an
// externally edited document has contributed prose.
package split

import (
	"strconv"
	"strings"

	"github.com/plotloom/plotloom/core/model"
)

// Marker prefixes recognized at the start of a line of scene text, and the
// separator between a heading's title and description.
const (
	PartSeparator    = "#"
	ChapterSeparator = "##"
	SceneSeparator   = "###"
	DescSeparator    = "|"

	clipTitle = 20
	warning   = "(!)"
)

// Split walks every chapter's scenes in order and breaks scene text at
// marker lines. New scenes become children of the scene they were cut
// from, inheriting its classification, status and story time; new chapters
// open at chapter and part markers and collect the scenes that follow.
// Reports whether any marker was found.
func Split(novel *model.Novel) bool {
	chIDs := model.NewIDAllocator(novel.SrtChapters...)
	scIDs := model.NewIDAllocator()
	for scID := range novel.Scenes {
		scIDs.Observe(scID)
	}

	didSplit := false
	var srtChapters []string
	for _, chID := range novel.SrtChapters {
		srtChapters = append(srtChapters, chID)
		chapterID := chID
		var srtScenes []string
		for _, scID := range novel.Chapters[chID].SrtScenes {
			srtScenes = append(srtScenes, scID)
			parent := novel.Scenes[scID]
			if parent.Content == nil || *parent.Content == "" {
				continue
			}

			sceneID := scID
			var buffer []string
			inScene := true
			splitCount := 0
			flush := func() {
				novel.Scenes[sceneID].SetContent(strings.Join(buffer, "\n"))
				buffer = nil
			}

			for _, line := range strings.Split(*parent.Content, "\n") {
				title, desc, _ := strings.Cut(strings.Trim(line, "# "), DescSeparator)
				switch {
				case strings.HasPrefix(line, SceneSeparator):
					flush()
					splitCount++
					sceneID = scIDs.Next()
					createScene(novel, sceneID, parent, splitCount, title, desc)
					srtScenes = append(srtScenes, sceneID)
					didSplit = true
					inScene = true
				case strings.HasPrefix(line, ChapterSeparator):
					if inScene {
						flush()
						splitCount = 0
						inScene = false
					}
					novel.Chapters[chapterID].SrtScenes = srtScenes
					srtScenes = nil
					chapterID = chIDs.Next()
					if title == "" {
						title = "New Chapter"
					}
					createChapter(novel, chapterID, title, desc, model.LevelChapter)
					srtChapters = append(srtChapters, chapterID)
					didSplit = true
				case strings.HasPrefix(line, PartSeparator):
					if inScene {
						flush()
						splitCount = 0
						inScene = false
					}
					novel.Chapters[chapterID].SrtScenes = srtScenes
					srtScenes = nil
					chapterID = chIDs.Next()
					if title == "" {
						title = "New Part"
					}
					createChapter(novel, chapterID, title, desc, model.LevelPart)
					srtChapters = append(srtChapters, chapterID)
					didSplit = true
				case !inScene:
					// Body text right after a chapter boundary opens a
					// scene of its own.
					buffer = append(buffer, line)
					splitCount++
					sceneID = scIDs.Next()
					createScene(novel, sceneID, parent, splitCount, "", "")
					srtScenes = append(srtScenes, sceneID)
					didSplit = true
					inScene = true
				default:
					buffer = append(buffer, line)
				}
			}
			if inScene {
				flush()
			}
		}
		novel.Chapters[chapterID].SrtScenes = srtScenes
	}
	novel.SrtChapters = srtChapters
	return didSplit
}

func createChapter(novel *model.Novel, id, title, desc string, level model.Level) {
	ch := &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	ch.Title = model.Str(title)
	ch.Desc = model.Str(desc)
	ch.Level = model.Ptr(level)
	ch.Type = model.Ptr(model.ClassNormal)
	novel.Chapters[id] = ch
}

// createScene opens a split-off child of parent. The parent's synopsis and
// plot fields get a warning prefix so the author knows they now describe
// only part of the original scene.
func createScene(novel *model.Novel, id string, parent *model.Scene, splitCount int, title, desc string) {
	sc := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	switch {
	case title != "":
		sc.Title = model.Str(title)
	case parent.Title != nil && *parent.Title != "":
		t := *parent.Title
		if r := []rune(t); len(r) > clipTitle {
			t = string(r[:clipTitle]) + "..."
		}
		sc.Title = model.Str(t + " Split: " + strconv.Itoa(splitCount))
	default:
		sc.Title = model.Str("New Scene Split: " + strconv.Itoa(splitCount))
	}
	if desc != "" {
		sc.Desc = model.Str(desc)
	}

	warn := func(s *string) *string {
		if s != nil && *s != "" && !strings.HasPrefix(*s, warning) {
			return model.Str(warning + *s)
		}
		return s
	}
	parent.Desc = warn(parent.Desc)
	parent.Goal = warn(parent.Goal)
	parent.Conflict = warn(parent.Conflict)
	parent.Outcome = warn(parent.Outcome)

	if parent.Status != nil && *parent.Status > model.StatusDraft {
		parent.Status = model.Int(model.StatusDraft)
	}
	sc.Status = parent.Status
	sc.Type = parent.Type
	sc.Date = parent.Date
	sc.Time = parent.Time
	sc.Day = parent.Day
	sc.LastsDays = parent.LastsDays
	sc.LastsHours = parent.LastsHours
	sc.LastsMinutes = parent.LastsMinutes
	novel.Scenes[id] = sc
}
