package yw7

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/plotloom/plotloom/core/model"
)

// WriteBytes renders the File's Novel back into document bytes. When the
// File was populated by ReadBytes, the parsed tree is mutated in place so
// that elements the model does not track survive untouched. Without a
// parsed tree a canonical skeleton is built from scratch.
func (f *File) WriteBytes() ([]byte, error) {
	f.buildTree()
	return postprocess(f.doc.serialize(), len(f.Novel.Chapters) > 0), nil
}

func (f *File) buildTree() {
	if f.doc == nil {
		f.doc = newDocument("YWRITER7")
	}
	root := f.doc.rootElement()
	novel := f.Novel
	if novel.Languages == nil {
		novel.DetectLanguages()
	}

	f.buildProject(section(root, "PROJECT"), novel)
	f.buildLocations(section(root, "LOCATIONS"), novel)
	f.buildItems(section(root, "ITEMS"), novel)
	f.buildCharacters(section(root, "CHARACTERS"), novel)
	f.buildProjectNotes(root, novel)
	buildProjectVars(root, novel)
	f.buildScenes(section(root, "SCENES"), novel)
	f.buildChapters(section(root, "CHAPTERS"), novel)
	f.finishScenes(section(root, "SCENES"), novel)
}

// section finds a top-level container, creating it when absent.
func section(root *xmlquery.Node, tag string) *xmlquery.Node {
	if s := child(root, tag); s != nil {
		return s
	}
	return addElement(root, tag, "")
}

// setOptional writes an optional field: nil leaves any existing element
// untouched, a value updates in place or creates the element for non-empty
// text only.
func setOptional(node *xmlquery.Node, tag string, v *string) {
	if v == nil {
		return
	}
	if c := child(node, tag); c != nil {
		setText(c, *v)
		return
	}
	if *v != "" {
		addElement(node, tag, *v)
	}
}

func setOptionalInt(node *xmlquery.Node, tag string, v *int) {
	if v == nil {
		return
	}
	upsertChild(node, tag, strconv.Itoa(*v))
}

func (f *File) buildProject(prj *xmlquery.Node, novel *model.Novel) {
	upsertChild(prj, "Ver", "7")
	setOptional(prj, "Title", novel.Title)
	setOptional(prj, "Desc", novel.Desc)
	setOptional(prj, "AuthorName", novel.AuthorName)
	setOptional(prj, "Bio", novel.AuthorBio)
	setOptional(prj, "FieldTitle1", novel.FieldTitle1)
	setOptional(prj, "FieldTitle2", novel.FieldTitle2)
	setOptional(prj, "FieldTitle3", novel.FieldTitle3)
	setOptional(prj, "FieldTitle4", novel.FieldTitle4)
	setOptionalInt(prj, "WordCountStart", novel.WordCountStart)
	setOptionalInt(prj, "WordTarget", novel.WordTarget)

	// Language information is written as project variables, never as
	// extension fields.
	delete(novel.KwVar, "Field_LanguageCode")
	delete(novel.KwVar, "Field_CountryCode")
	writeKwVar(prj, f.Fields.Project, novel.KwVar)
}

// writeKwVar reconciles an entity's Fields container with the model: set
// fields are written, unset or empty fields are removed.
func writeKwVar(entity *xmlquery.Node, names []string, kw map[string]string) {
	fields := child(entity, "Fields")
	for _, name := range names {
		if value := kw[name]; value != "" {
			if fields == nil {
				fields = addElement(entity, "Fields", "")
			}
			upsertChild(fields, name, value)
		} else if fields != nil {
			removeChild(fields, name)
		}
	}
}

func buildWorldElement(node *xmlquery.Node, we *model.WorldElement, sortOrder int) {
	setOptional(node, "Title", we.Title)
	setOptional(node, "ImageFile", we.Image)
	setOptional(node, "Desc", we.Desc)
	setOptional(node, "AKA", we.AKA)
	if we.Tags != nil {
		addElement(node, "Tags", model.ListToString(we.Tags))
	}
	addElement(node, "SortOrder", strconv.Itoa(sortOrder))
}

// clearEntities drops every direct child with the given tag, leaving the
// container itself in place.
func clearEntities(container *xmlquery.Node, tag string) {
	for _, node := range children(container, tag) {
		xmlquery.RemoveFromTree(node)
	}
}

func (f *File) buildLocations(container *xmlquery.Node, novel *model.Novel) {
	clearEntities(container, "LOCATION")
	for i, id := range novel.SrtLocations {
		node := addElement(container, "LOCATION", "")
		addElement(node, "ID", id)
		buildWorldElement(node, novel.Locations[id], i+1)
		writeKwVar(node, f.Fields.Location, novel.Locations[id].KwVar)
	}
}

func (f *File) buildItems(container *xmlquery.Node, novel *model.Novel) {
	clearEntities(container, "ITEM")
	for i, id := range novel.SrtItems {
		node := addElement(container, "ITEM", "")
		addElement(node, "ID", id)
		buildWorldElement(node, novel.Items[id], i+1)
		writeKwVar(node, f.Fields.Item, novel.Items[id].KwVar)
	}
}

func (f *File) buildCharacters(container *xmlquery.Node, novel *model.Novel) {
	clearEntities(container, "CHARACTER")
	for i, id := range novel.SrtCharacters {
		cr := novel.Characters[id]
		node := addElement(container, "CHARACTER", "")
		addElement(node, "ID", id)
		setOptional(node, "Title", cr.Title)
		setOptional(node, "Desc", cr.Desc)
		setOptional(node, "ImageFile", cr.Image)
		addElement(node, "SortOrder", strconv.Itoa(i+1))
		setOptional(node, "Notes", cr.Notes)
		setOptional(node, "AKA", cr.AKA)
		if cr.Tags != nil {
			addElement(node, "Tags", model.ListToString(cr.Tags))
		}
		setOptional(node, "Bio", cr.Bio)
		setOptional(node, "Goals", cr.Goals)
		setOptional(node, "FullName", cr.FullName)
		if cr.IsMajor != nil && *cr.IsMajor {
			addElement(node, "Major", "-1")
		}
		writeKwVar(node, f.Fields.Character, cr.KwVar)
	}
}

func (f *File) buildProjectNotes(root *xmlquery.Node, novel *model.Novel) {
	container := child(root, "PROJECTNOTES")
	if container != nil {
		clearEntities(container, "PROJECTNOTE")
		if len(novel.SrtPrjNotes) == 0 {
			xmlquery.RemoveFromTree(container)
			return
		}
	} else {
		if len(novel.SrtPrjNotes) == 0 {
			return
		}
		container = addElement(root, "PROJECTNOTES", "")
	}
	for i, id := range novel.SrtPrjNotes {
		pn := novel.ProjectNotes[id]
		node := addElement(container, "PROJECTNOTE", "")
		addElement(node, "ID", id)
		setOptional(node, "Title", pn.Title)
		setOptional(node, "Desc", pn.Desc)
		addElement(node, "SortOrder", strconv.Itoa(i+1))
	}
}

// buildProjectVars keeps the language bookkeeping variables in sync with
// the model. Existing lang=xx entries are kept, missing ones added in
// pairs that open and close a language span.
func buildProjectVars(root *xmlquery.Node, novel *model.Novel) {
	if len(novel.Languages) == 0 && novel.LanguageCode == nil && novel.CountryCode == nil {
		return
	}
	novel.CheckLocale()
	container := section(root, "PROJECTVARS")

	ids := map[string]bool{}
	missing := append([]string(nil), novel.Languages...)
	hasLanguage, hasCountry := false, false
	for _, node := range children(container, "PROJECTVAR") {
		if id := childText(node, "ID"); id != nil {
			ids[*id] = true
		}
		title := childText(node, "Title")
		if title == nil {
			continue
		}
		switch {
		case *title == "Language":
			upsertChild(node, "Desc", *novel.LanguageCode)
			hasLanguage = true
		case *title == "Country":
			upsertChild(node, "Desc", *novel.CountryCode)
			hasCountry = true
		default:
			for i, code := range missing {
				if *title == "lang="+code {
					missing = append(missing[:i], missing[i+1:]...)
					break
				}
			}
		}
	}

	addVar := func(title, desc string) {
		id := model.CreateID(ids)
		ids[id] = true
		node := addElement(container, "PROJECTVAR", "")
		addElement(node, "ID", id)
		addElement(node, "Title", title)
		addElement(node, "Desc", desc)
		addElement(node, "Tags", "0")
	}
	if !hasLanguage {
		addVar("Language", *novel.LanguageCode)
	}
	if !hasCountry {
		addVar("Country", *novel.CountryCode)
	}
	for _, code := range missing {
		addVar("lang="+code, `<HTM <SPAN LANG="`+code+`"> /HTM>`)
		addVar("/lang="+code, "<HTM </SPAN> /HTM>")
	}
}

// orderedSceneIDs lists every scene once: chapter order first, then
// orphans in numeric ID order.
func orderedSceneIDs(novel *model.Novel) []string {
	seen := map[string]bool{}
	var ids []string
	for _, chID := range novel.SrtChapters {
		for _, scID := range novel.Chapters[chID].SrtScenes {
			if novel.Scenes[scID] != nil && !seen[scID] {
				seen[scID] = true
				ids = append(ids, scID)
			}
		}
	}
	var orphans []string
	for scID := range novel.Scenes {
		if !seen[scID] {
			orphans = append(orphans, scID)
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		a, _ := strconv.Atoi(orphans[i])
		b, _ := strconv.Atoi(orphans[j])
		if a != b {
			return a < b
		}
		return orphans[i] < orphans[j]
	})
	return append(ids, orphans...)
}

func (f *File) buildScenes(container *xmlquery.Node, novel *model.Novel) {
	existing := map[string]*xmlquery.Node{}
	for _, node := range children(container, "SCENE") {
		if id := childText(node, "ID"); id != nil {
			existing[*id] = node
		}
		detach(node)
	}
	for _, scID := range orderedSceneIDs(novel) {
		node := existing[scID]
		if node == nil {
			node = element("SCENE")
			addChildNode(container, node)
			addElement(node, "ID", scID)
		} else {
			addChildNode(container, node)
		}
		f.buildScene(node, scID, novel)
	}
}

func (f *File) buildScene(node *xmlquery.Node, scID string, novel *model.Novel) {
	sc := novel.Scenes[scID]
	setOptional(node, "Title", sc.Title)

	if !hasChild(node, "BelongsToChID") {
		for _, chID := range novel.SrtChapters {
			if slices.Contains(novel.Chapters[chID].SrtScenes, scID) {
				addElement(node, "BelongsToChID", chID)
				break
			}
		}
	}

	setOptional(node, "Desc", sc.Desc)
	if !hasChild(node, "SceneContent") {
		content := ""
		if sc.Content != nil {
			content = *sc.Content
		}
		addElement(node, "SceneContent", content)
	}
	if !hasChild(node, "WordCount") {
		addElement(node, "WordCount", strconv.Itoa(sc.WordCount))
	}
	if !hasChild(node, "LetterCount") {
		addElement(node, "LetterCount", strconv.Itoa(sc.LetterCount))
	}

	unused, fieldType, hasField := encodeSceneType(sc.Classification())
	setFlag(node, "Unused", unused)
	fields := child(node, "Fields")
	if fields != nil {
		if hasField {
			upsertChild(fields, "Field_SceneType", fieldType)
		} else {
			removeChild(fields, "Field_SceneType")
		}
	} else if hasField {
		fields = addElement(node, "Fields", "")
		addElement(fields, "Field_SceneType", fieldType)
	}

	if sc.DoNotExport != nil {
		if *sc.DoNotExport {
			if !hasChild(node, "ExportCondSpecific") {
				addElement(node, "ExportCondSpecific", "")
			}
			removeChild(node, "ExportWhenRTF")
		} else if hasChild(node, "ExportCondSpecific") && !hasChild(node, "ExportWhenRTF") {
			addElement(node, "ExportWhenRTF", "-1")
		}
	}

	writeKwVar(node, f.Fields.Scene, sc.KwVar)

	setOptionalInt(node, "Status", sc.Status)
	setOptional(node, "Notes", sc.Notes)
	if sc.Tags != nil {
		upsertChild(node, "Tags", model.ListToString(sc.Tags))
	}
	setOptional(node, "Field1", sc.Field1)
	setOptional(node, "Field2", sc.Field2)
	setOptional(node, "Field3", sc.Field3)
	setOptional(node, "Field4", sc.Field4)
	if sc.AppendToPrev != nil {
		setFlag(node, "AppendToPrev", *sc.AppendToPrev)
	}

	buildSceneDateTime(node, sc)

	setOptional(node, "LastsDays", sc.LastsDays)
	setOptional(node, "LastsHours", sc.LastsHours)
	setOptional(node, "LastsMinutes", sc.LastsMinutes)
	if sc.IsReactionScene != nil {
		setFlag(node, "ReactionScene", *sc.IsReactionScene)
	}
	if sc.IsSubPlot != nil {
		setFlag(node, "SubPlot", *sc.IsSubPlot)
	}
	setOptional(node, "Goal", sc.Goal)
	setOptional(node, "Conflict", sc.Conflict)
	setOptional(node, "Outcome", sc.Outcome)
	setOptional(node, "ImageFile", sc.Image)

	writeRefs(node, "Characters", "CharID", sc.Characters)
	writeRefs(node, "Locations", "LocID", sc.Locations)
	writeRefs(node, "Items", "ItemID", sc.Items)
}

// buildSceneDateTime reconciles the two story-time forms. A full date and
// time pair wins over the relative day/hour/minute form; clearing both
// removes every time element.
func buildSceneDateTime(node *xmlquery.Node, sc *model.Scene) {
	removeAll := func() {
		for _, tag := range []string{"SpecificDateTime", "SpecificDateMode", "Day", "Hour", "Minute"} {
			removeChild(node, tag)
		}
	}
	switch {
	case sc.Date != nil && sc.Time != nil:
		if *sc.Date == "" && *sc.Time == "" {
			removeAll()
			return
		}
		dateTime := *sc.Date + " " + *sc.Time
		if existing := child(node, "SpecificDateTime"); existing != nil {
			setText(existing, dateTime)
			return
		}
		addElement(node, "SpecificDateTime", dateTime)
		addElement(node, "SpecificDateMode", "-1")
		removeChild(node, "Day")
		removeChild(node, "Hour")
		removeChild(node, "Minute")
	case sc.Day != nil || sc.Time != nil:
		day := sc.Day != nil && *sc.Day != ""
		clock := sc.Time != nil && *sc.Time != ""
		if !day && !clock {
			removeAll()
			return
		}
		removeChild(node, "SpecificDateTime")
		removeChild(node, "SpecificDateMode")
		if sc.Day != nil {
			upsertChild(node, "Day", *sc.Day)
		}
		if sc.Time != nil {
			parts := splitClock(*sc.Time)
			upsertChild(node, "Hour", parts[0])
			upsertChild(node, "Minute", parts[1])
		}
	}
}

// writeRefs replaces the entries of an ID reference container. A nil list
// leaves the container untouched.
func writeRefs(node *xmlquery.Node, container, tag string, ids []string) {
	if ids == nil {
		return
	}
	c := child(node, container)
	if c == nil {
		c = addElement(node, container, "")
	} else {
		clearEntities(c, tag)
	}
	for _, id := range ids {
		addElement(c, tag, id)
	}
}

func (f *File) buildChapters(container *xmlquery.Node, novel *model.Novel) {
	existing := map[string]*xmlquery.Node{}
	for _, node := range children(container, "CHAPTER") {
		if id := childText(node, "ID"); id != nil {
			existing[*id] = node
		}
		detach(node)
	}
	for i, chID := range novel.SrtChapters {
		node := existing[chID]
		if node == nil {
			node = element("CHAPTER")
			addChildNode(container, node)
			addElement(node, "ID", chID)
		} else {
			addChildNode(container, node)
		}
		f.buildChapter(node, novel.Chapters[chID], i+1)
	}
}

func (f *File) buildChapter(node *xmlquery.Node, ch *model.Chapter, sortOrder int) {
	setOptional(node, "Title", ch.Title)
	setOptional(node, "Desc", ch.Desc)

	unused, legacyType, chapterType := encodeChapterType(ch.Classification())
	setFlag(node, "Unused", unused)
	upsertChild(node, "SortOrder", strconv.Itoa(sortOrder))

	fields := child(node, "Fields")
	ensureFields := func() *xmlquery.Node {
		if fields == nil {
			fields = addElement(node, "Fields", "")
		}
		return fields
	}
	if ch.SuppressChapterTitle != nil && *ch.SuppressChapterTitle {
		upsertChild(ensureFields(), "Field_SuppressChapterTitle", "1")
	} else if fields != nil && hasChild(fields, "Field_SuppressChapterTitle") {
		upsertChild(fields, "Field_SuppressChapterTitle", "0")
	}
	if ch.SuppressChapterBreak != nil && *ch.SuppressChapterBreak {
		upsertChild(ensureFields(), "Field_SuppressChapterBreak", "1")
	} else if fields != nil && hasChild(fields, "Field_SuppressChapterBreak") {
		upsertChild(fields, "Field_SuppressChapterBreak", "0")
	}
	if ch.IsTrash != nil && *ch.IsTrash {
		upsertChild(ensureFields(), "Field_IsTrash", "1")
	} else if fields != nil {
		removeChild(fields, "Field_IsTrash")
	}
	writeKwVar(node, f.Fields.Chapter, ch.KwVar)

	if ch.HeadingLevel() == model.LevelPart {
		if !hasChild(node, "SectionStart") {
			addElement(node, "SectionStart", "-1")
		}
	} else {
		removeChild(node, "SectionStart")
	}

	upsertChild(node, "Type", legacyType)
	upsertChild(node, "ChapterType", chapterType)

	removeChild(node, "Scenes")
	if len(ch.SrtScenes) > 0 {
		scenes := addElement(node, "Scenes", "")
		for _, scID := range ch.SrtScenes {
			addElement(scenes, "ScID", scID)
		}
	}
}

// finishScenes runs after chapter assembly: content and counts for scenes
// whose content is known, and removal of stale RTF references.
func (f *File) finishScenes(container *xmlquery.Node, novel *model.Novel) {
	for _, node := range children(container, "SCENE") {
		id := childText(node, "ID")
		if id == nil {
			continue
		}
		if sc := novel.Scenes[*id]; sc != nil && sc.Content != nil {
			upsertChild(node, "SceneContent", *sc.Content)
			upsertChild(node, "WordCount", strconv.Itoa(sc.WordCount))
			upsertChild(node, "LetterCount", strconv.Itoa(sc.LetterCount))
		}
	}
	f.stripRTFRefs()
}

// stripRTFRefs removes stale references to per-scene RTF files wherever
// they appear; the content lives inline in the document.
func (f *File) stripRTFRefs() {
	nodes, err := f.doc.query("//SCENE/RTFFile")
	if err != nil {
		return
	}
	for _, n := range nodes {
		xmlquery.RemoveFromTree(n)
	}
}

func splitClock(clock string) [2]string {
	parts := strings.SplitN(clock, ":", 3)
	if len(parts) < 2 {
		return [2]string{"0", "0"}
	}
	return [2]string{parts[0], parts[1]}
}
