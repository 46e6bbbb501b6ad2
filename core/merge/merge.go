// Package merge folds an independently edited project model back into the
// authoritative one. The two models come from separate reads: the target is
// the project of record, the source is a partial model recovered from an
// externally edited document. Merging never deletes chapters and never
// fails on its own; a structurally invalid source is rejected earlier, at
// read time.
package merge

import (
	"slices"

	"github.com/plotloom/plotloom/core/model"
	"github.com/plotloom/plotloom/core/split"
)

// Merge combines source into target in place and returns whether the
// post-merge splitter restructured the result. Locations, items and
// characters are replaced wholesale when the source carries them, with
// per-field fallback to target values for fields the source left unset.
// Scenes and chapters merge field by field; fields the source did not state
// leave the target's values untouched. The field union is stable under
// repetition; the splitter pass is not when the source's content still
// carries marker lines, since each run cuts new scenes.
func Merge(target, source *model.Novel) (didSplit bool) {
	mergeWorldKind(&target.Locations, &target.SrtLocations, source.Locations, source.SrtLocations)
	mergeWorldKind(&target.Items, &target.SrtItems, source.Items, source.SrtItems)
	mergeCharacters(target, source)
	contributed := mergeScenes(target, source)
	mergeChapters(target, source)
	mergeProject(target, source)
	if contributed {
		didSplit = split.Split(target)
	}
	return didSplit
}

// mergeWorldKind replaces a world-element kind from the source. An empty
// source ordering means the external document did not carry this kind at
// all, so the target's set survives untouched.
func mergeWorldKind(tgt *map[string]*model.WorldElement, tgtOrder *[]string, src map[string]*model.WorldElement, srcOrder []string) {
	if len(srcOrder) == 0 {
		return
	}
	merged := make(map[string]*model.WorldElement, len(srcOrder))
	for _, id := range srcOrder {
		s := src[id]
		if s == nil {
			continue
		}
		e := &model.WorldElement{}
		*e = *s
		if t := (*tgt)[id]; t != nil {
			e.KwVar = mergeKwVar(t.KwVar, s.KwVar)
			fillWorldElement(e, t)
		} else {
			e.KwVar = mergeKwVar(nil, s.KwVar)
		}
		merged[id] = e
	}
	*tgt = merged
	*tgtOrder = slices.Clone(srcOrder)
}

// fillWorldElement backfills fields the source left unset.
func fillWorldElement(e, t *model.WorldElement) {
	if e.Title == nil {
		e.Title = t.Title
	}
	if e.Desc == nil {
		e.Desc = t.Desc
	}
	if e.Image == nil {
		e.Image = t.Image
	}
	if e.AKA == nil {
		e.AKA = t.AKA
	}
	if e.Tags == nil {
		e.Tags = t.Tags
	}
}

// mergeKwVar layers source extension fields over the target's.
func mergeKwVar(tgt, src map[string]string) map[string]string {
	merged := map[string]string{}
	for k, v := range tgt {
		merged[k] = v
	}
	for k, v := range src {
		merged[k] = v
	}
	return merged
}

func mergeCharacters(target, source *model.Novel) {
	if len(source.SrtCharacters) == 0 {
		return
	}
	merged := make(map[string]*model.Character, len(source.SrtCharacters))
	for _, id := range source.SrtCharacters {
		s := source.Characters[id]
		if s == nil {
			continue
		}
		cr := &model.Character{}
		*cr = *s
		cr.KwVar = mergeKwVar(nil, s.KwVar)
		if t := target.Characters[id]; t != nil {
			cr.KwVar = mergeKwVar(t.KwVar, s.KwVar)
			fillWorldElement(&cr.WorldElement, &t.WorldElement)
			if cr.Notes == nil {
				cr.Notes = t.Notes
			}
			if cr.Bio == nil {
				cr.Bio = t.Bio
			}
			if cr.Goals == nil {
				cr.Goals = t.Goals
			}
			if cr.FullName == nil {
				cr.FullName = t.FullName
			}
			if cr.IsMajor == nil {
				cr.IsMajor = t.IsMajor
			}
		}
		merged[id] = cr
	}
	target.Characters = merged
	target.SrtCharacters = slices.Clone(source.SrtCharacters)
}

// mergeScenes unions scene fields and reports whether the source carried
// any prose, which is what later triggers the splitter pass.
func mergeScenes(target, source *model.Novel) (contributed bool) {
	for id, s := range source.Scenes {
		t := target.Scenes[id]
		if t == nil {
			t = &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
			target.Scenes[id] = t
		}
		if s.Title != nil && *s.Title != "" {
			t.Title = s.Title
		}
		if s.Desc != nil {
			t.Desc = s.Desc
		}
		if s.Content != nil {
			t.SetContent(*s.Content)
			if *s.Content != "" {
				contributed = true
			}
		}
		if s.Type != nil {
			t.Type = s.Type
		}
		if s.DoNotExport != nil {
			t.DoNotExport = s.DoNotExport
		}
		if s.Status != nil {
			t.Status = s.Status
		}
		if s.Notes != nil {
			t.Notes = s.Notes
		}
		if s.Tags != nil {
			t.Tags = s.Tags
		}
		if s.Field1 != nil {
			t.Field1 = s.Field1
		}
		if s.Field2 != nil {
			t.Field2 = s.Field2
		}
		if s.Field3 != nil {
			t.Field3 = s.Field3
		}
		if s.Field4 != nil {
			t.Field4 = s.Field4
		}
		if s.AppendToPrev != nil {
			t.AppendToPrev = s.AppendToPrev
		}
		if s.Date != nil {
			t.Date = s.Date
		}
		if s.Time != nil {
			t.Time = s.Time
		}
		if s.Day != nil {
			t.Day = s.Day
		}
		if s.LastsDays != nil {
			t.LastsDays = s.LastsDays
		}
		if s.LastsHours != nil {
			t.LastsHours = s.LastsHours
		}
		if s.LastsMinutes != nil {
			t.LastsMinutes = s.LastsMinutes
		}
		if s.IsReactionScene != nil {
			t.IsReactionScene = s.IsReactionScene
		}
		if s.IsSubPlot != nil {
			t.IsSubPlot = s.IsSubPlot
		}
		if s.Goal != nil {
			t.Goal = s.Goal
		}
		if s.Conflict != nil {
			t.Conflict = s.Conflict
		}
		if s.Outcome != nil {
			t.Outcome = s.Outcome
		}
		if s.Image != nil {
			t.Image = s.Image
		}
		if s.Characters != nil {
			t.Characters = filterIDs(s.Characters, target.SrtCharacters)
		}
		if s.Locations != nil {
			t.Locations = filterIDs(s.Locations, target.SrtLocations)
		}
		if s.Items != nil {
			t.Items = filterIDs(s.Items, target.SrtItems)
		}
		t.KwVar = mergeKwVar(t.KwVar, s.KwVar)
	}
	return contributed
}

// filterIDs keeps only references that resolve in the merged entity set.
func filterIDs(ids, known []string) []string {
	kept := []string{}
	for _, id := range ids {
		if slices.Contains(known, id) {
			kept = append(kept, id)
		}
	}
	return kept
}

func mergeChapters(target, source *model.Novel) {
	// A scene listed under some source chapter is re-homed there; every
	// other chapter must give it up.
	sourceHome := map[string]string{}
	for chID, ch := range source.Chapters {
		for _, scID := range ch.SrtScenes {
			sourceHome[scID] = chID
		}
	}

	for chID, s := range source.Chapters {
		t := target.Chapters[chID]
		if t == nil {
			t = &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
			target.Chapters[chID] = t
		}
		if s.Title != nil && *s.Title != "" {
			t.Title = s.Title
		}
		if s.Desc != nil {
			t.Desc = s.Desc
		}
		if s.Level != nil {
			t.Level = s.Level
		}
		if s.Type != nil {
			t.Type = s.Type
		}
		if s.SuppressChapterTitle != nil {
			t.SuppressChapterTitle = s.SuppressChapterTitle
		}
		if s.SuppressChapterBreak != nil {
			t.SuppressChapterBreak = s.SuppressChapterBreak
		}
		if s.IsTrash != nil {
			t.IsTrash = s.IsTrash
		}
		t.KwVar = mergeKwVar(t.KwVar, s.KwVar)
	}

	// Scene list reconciliation runs over every target chapter: re-homed
	// scenes leave their old chapter, then the source's insertions splice
	// into what remains.
	for chID, t := range target.Chapters {
		kept := t.SrtScenes[:0:0]
		for _, scID := range t.SrtScenes {
			if home, moved := sourceHome[scID]; moved && home != chID {
				continue
			}
			if _, inSource := source.Scenes[scID]; inSource {
				if s := source.Chapters[chID]; s != nil && !slices.Contains(s.SrtScenes, scID) {
					continue
				}
			}
			kept = append(kept, scID)
		}
		if s := source.Chapters[chID]; s != nil {
			kept = mergeOrder(kept, filterKnownScenes(s.SrtScenes, target))
		}
		t.SrtScenes = kept
	}

	target.SrtChapters = mergeOrder(target.SrtChapters, filterKnownChapters(source.SrtChapters, target))
}

func filterKnownScenes(ids []string, novel *model.Novel) []string {
	kept := ids[:0:0]
	for _, id := range ids {
		if novel.Scenes[id] != nil {
			kept = append(kept, id)
		}
	}
	return kept
}

func filterKnownChapters(ids []string, novel *model.Novel) []string {
	kept := ids[:0:0]
	for _, id := range ids {
		if novel.Chapters[id] != nil {
			kept = append(kept, id)
		}
	}
	return kept
}

// mergeOrder splices source-only entries into the target order, inserting
// each immediately after its predecessor in the source sequence. Entries
// already present keep their target position, so manual reordering in the
// target survives source insertions.
func mergeOrder(target, source []string) []string {
	merged := slices.Clone(target)
	for i, id := range source {
		if slices.Contains(merged, id) {
			continue
		}
		if i == 0 {
			merged = slices.Insert(merged, 0, id)
			continue
		}
		at := slices.Index(merged, source[i-1])
		if at < 0 {
			merged = append(merged, id)
			continue
		}
		merged = slices.Insert(merged, at+1, id)
	}
	return merged
}

func mergeProject(target, source *model.Novel) {
	if source.Title != nil && *source.Title != "" {
		target.Title = source.Title
	}
	if source.Desc != nil {
		target.Desc = source.Desc
	}
	if source.AuthorName != nil {
		target.AuthorName = source.AuthorName
	}
	if source.AuthorBio != nil {
		target.AuthorBio = source.AuthorBio
	}
	if source.FieldTitle1 != nil {
		target.FieldTitle1 = source.FieldTitle1
	}
	if source.FieldTitle2 != nil {
		target.FieldTitle2 = source.FieldTitle2
	}
	if source.FieldTitle3 != nil {
		target.FieldTitle3 = source.FieldTitle3
	}
	if source.FieldTitle4 != nil {
		target.FieldTitle4 = source.FieldTitle4
	}
	if source.WordCountStart != nil {
		target.WordCountStart = source.WordCountStart
	}
	if source.WordTarget != nil {
		target.WordTarget = source.WordTarget
	}
	if source.LanguageCode != nil {
		target.LanguageCode = source.LanguageCode
	}
	if source.CountryCode != nil {
		target.CountryCode = source.CountryCode
	}
	if len(source.Languages) > 0 {
		target.Languages = slices.Clone(source.Languages)
	}
	target.KwVar = mergeKwVar(target.KwVar, source.KwVar)
}
