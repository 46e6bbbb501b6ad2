package yw7

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/plotloom/plotloom/core/errors"
	"github.com/plotloom/plotloom/core/model"
)

// ReadBytes parses a project document into a fresh Novel. The source bytes
// are never mutated. Stages run in dependency order: entities parsed later
// may reference IDs produced earlier, and unresolved references are dropped
// silently rather than failing.
func (f *File) ReadBytes(data []byte) error {
	doc, err := parseDocument(data)
	if err != nil {
		return &errors.ParseError{Path: f.Path, Err: err}
	}
	root := doc.rootElement()
	if root == nil || child(root, "PROJECT") == nil {
		return &errors.SchemaError{Element: "PROJECT", Path: f.Path}
	}

	novel := model.NewNovel()
	f.readProject(root, novel)
	if err := f.readLocations(root, novel); err != nil {
		return err
	}
	if err := f.readItems(root, novel); err != nil {
		return err
	}
	if err := f.readCharacters(root, novel); err != nil {
		return err
	}
	readProjectVars(root, novel)
	if err := f.readProjectNotes(root, novel); err != nil {
		return err
	}
	if err := f.readScenes(root, novel); err != nil {
		return err
	}
	if err := f.readChapters(root, novel); err != nil {
		return err
	}
	novel.AdjustSceneTypes()

	f.Novel = novel
	f.doc = doc
	f.SourceHash = Fingerprint(data)
	return nil
}

// readKwVar collects the recognized extension fields of an entity. Keys
// outside the declared set are left for the in-place writer to preserve.
func readKwVar(entity *xmlquery.Node, names []string, kw map[string]string) {
	for _, fieldsNode := range children(entity, "Fields") {
		for _, name := range names {
			if field := child(fieldsNode, name); field != nil {
				kw[name] = field.InnerText()
			}
		}
	}
}

func (f *File) readProject(root *xmlquery.Node, novel *model.Novel) {
	prj := child(root, "PROJECT")

	novel.Title = childText(prj, "Title")
	novel.AuthorName = childText(prj, "AuthorName")
	novel.AuthorBio = childText(prj, "Bio")
	novel.Desc = childText(prj, "Desc")
	novel.FieldTitle1 = childText(prj, "FieldTitle1")
	novel.FieldTitle2 = childText(prj, "FieldTitle2")
	novel.FieldTitle3 = childText(prj, "FieldTitle3")
	novel.FieldTitle4 = childText(prj, "FieldTitle4")

	if t := childText(prj, "WordCountStart"); t != nil {
		n, err := strconv.Atoi(*t)
		if err != nil {
			n = 0
		}
		novel.WordCountStart = &n
	}
	if t := childText(prj, "WordTarget"); t != nil {
		n, err := strconv.Atoi(*t)
		if err != nil {
			n = 0
		}
		novel.WordTarget = &n
	}

	readKwVar(prj, f.Fields.Project, novel.KwVar)
	if code := novel.KwVar["Field_LanguageCode"]; code != "" {
		novel.LanguageCode = &code
	}
	if code := novel.KwVar["Field_CountryCode"]; code != "" {
		novel.CountryCode = &code
	}
}

// readWorldElement fills the fields shared by locations and items.
func (f *File) readWorldElement(node *xmlquery.Node, names []string) *model.WorldElement {
	we := &model.WorldElement{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
	we.Title = childText(node, "Title")
	we.Image = childText(node, "ImageFile")
	we.Desc = childText(node, "Desc")
	we.AKA = childText(node, "AKA")
	if tags := childText(node, "Tags"); tags != nil && *tags != "" {
		we.Tags = model.StringToList(*tags)
	}
	readKwVar(node, names, we.KwVar)
	return we
}

func (f *File) readLocations(root *xmlquery.Node, novel *model.Novel) error {
	novel.SrtLocations = nil
	for _, node := range children(child(root, "LOCATIONS"), "LOCATION") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		novel.SrtLocations = append(novel.SrtLocations, *id)
		novel.Locations[*id] = f.readWorldElement(node, f.Fields.Location)
	}
	return nil
}

func (f *File) readItems(root *xmlquery.Node, novel *model.Novel) error {
	novel.SrtItems = nil
	for _, node := range children(child(root, "ITEMS"), "ITEM") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		novel.SrtItems = append(novel.SrtItems, *id)
		novel.Items[*id] = f.readWorldElement(node, f.Fields.Item)
	}
	return nil
}

func (f *File) readCharacters(root *xmlquery.Node, novel *model.Novel) error {
	novel.SrtCharacters = nil
	for _, node := range children(child(root, "CHARACTERS"), "CHARACTER") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		cr := &model.Character{WorldElement: *f.readWorldElement(node, f.Fields.Character)}
		cr.Notes = childText(node, "Notes")
		cr.Bio = childText(node, "Bio")
		cr.Goals = childText(node, "Goals")
		cr.FullName = childText(node, "FullName")
		cr.IsMajor = model.Bool(hasChild(node, "Major"))
		novel.SrtCharacters = append(novel.SrtCharacters, *id)
		novel.Characters[*id] = cr
	}
	return nil
}

// readProjectVars extracts the language bookkeeping encoded as project
// variables: the Language/Country pair plus one lang=xx pseudo-entry per
// extra language used in rich text.
func readProjectVars(root *xmlquery.Node, novel *model.Novel) {
	for _, node := range children(child(root, "PROJECTVARS"), "PROJECTVAR") {
		title := childText(node, "Title")
		if title == nil {
			continue
		}
		switch {
		case *title == "Language":
			if desc := childText(node, "Desc"); desc != nil {
				novel.LanguageCode = desc
			}
		case *title == "Country":
			if desc := childText(node, "Desc"); desc != nil {
				novel.CountryCode = desc
			}
		case strings.HasPrefix(*title, "lang="):
			_, code, _ := strings.Cut(*title, "=")
			if code != "" {
				novel.Languages = append(novel.Languages, code)
			}
		}
	}
}

func (f *File) readProjectNotes(root *xmlquery.Node, novel *model.Novel) error {
	novel.SrtPrjNotes = nil
	for _, node := range children(child(root, "PROJECTNOTES"), "PROJECTNOTE") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		pn := &model.BasicElement{KwVar: map[string]string{}}
		pn.Title = childText(node, "Title")
		pn.Desc = childText(node, "Desc")
		readKwVar(node, f.Fields.ProjectNote, pn.KwVar)
		novel.SrtPrjNotes = append(novel.SrtPrjNotes, *id)
		novel.ProjectNotes[*id] = pn
	}
	return nil
}

func (f *File) readScenes(root *xmlquery.Node, novel *model.Novel) error {
	for _, node := range children(child(root, "SCENES"), "SCENE") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		sc := &model.Scene{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
		novel.Scenes[*id] = sc

		sc.Title = childText(node, "Title")
		sc.Desc = childText(node, "Desc")
		if content := childText(node, "SceneContent"); content != nil {
			sc.SetContent(*content)
		}

		readKwVar(node, f.Fields.Scene, sc.KwVar)
		fieldType := ""
		for _, fieldsNode := range children(node, "Fields") {
			if t := childText(fieldsNode, "Field_SceneType"); t != nil {
				fieldType = *t
			}
		}
		sc.Type = model.Ptr(decodeSceneType(hasChild(node, "Unused"), fieldType))

		// A scene is excluded from export when it carries the specific
		// export condition without the RTF escape hatch.
		doNotExport := hasChild(node, "ExportCondSpecific") && !hasChild(node, "ExportWhenRTF")
		sc.DoNotExport = &doNotExport

		if t := childText(node, "Status"); t != nil {
			if status, err := strconv.Atoi(*t); err == nil {
				sc.Status = &status
			}
		}
		sc.Notes = childText(node, "Notes")
		if tags := childText(node, "Tags"); tags != nil && *tags != "" {
			sc.Tags = model.StringToList(*tags)
		}
		sc.Field1 = childText(node, "Field1")
		sc.Field2 = childText(node, "Field2")
		sc.Field3 = childText(node, "Field3")
		sc.Field4 = childText(node, "Field4")
		sc.AppendToPrev = model.Bool(hasChild(node, "AppendToPrev"))

		readSceneDateTime(node, sc)

		sc.LastsDays = childText(node, "LastsDays")
		sc.LastsHours = childText(node, "LastsHours")
		sc.LastsMinutes = childText(node, "LastsMinutes")
		sc.IsReactionScene = model.Bool(hasChild(node, "ReactionScene"))
		sc.IsSubPlot = model.Bool(hasChild(node, "SubPlot"))
		sc.Goal = childText(node, "Goal")
		sc.Conflict = childText(node, "Conflict")
		sc.Outcome = childText(node, "Outcome")
		sc.Image = childText(node, "ImageFile")

		// References that do not resolve to a known entity are dropped,
		// never raised: a best-effort recovery policy for projects whose
		// reference tables have decayed.
		sc.Characters = resolveRefs(node, "Characters", "CharID", novel.SrtCharacters)
		sc.Locations = resolveRefs(node, "Locations", "LocID", novel.SrtLocations)
		sc.Items = resolveRefs(node, "Items", "ItemID", novel.SrtItems)
	}
	return nil
}

// readSceneDateTime normalizes the two story-time representations: a
// combined date-time is preferred, otherwise day/hour/minute fields are
// folded into the relative form with zero-padded time parts.
func readSceneDateTime(node *xmlquery.Node, sc *model.Scene) {
	if t := childText(node, "SpecificDateTime"); t != nil {
		date, clock, ok := parseDateTime(*t)
		if !ok {
			date, clock = "", ""
		}
		sc.Date = &date
		sc.Time = &clock
		return
	}
	if day := childText(node, "Day"); day != nil {
		d := *day
		if _, err := strconv.Atoi(d); err != nil {
			d = ""
		}
		sc.Day = &d
	}
	hour, minute := childText(node, "Hour"), childText(node, "Minute")
	if hour == nil && minute == nil {
		return
	}
	h, m := "00", "00"
	if hour != nil {
		h = zfill2(*hour)
	}
	if minute != nil {
		m = zfill2(*minute)
	}
	sc.Time = model.Str(h + ":" + m + ":00")
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// parseDateTime splits a stored date-time into ISO date and time parts.
func parseDateTime(s string) (date, clock string, ok bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), t.Format("15:04:05"), true
		}
	}
	return "", "", false
}

func zfill2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// resolveRefs reads an ID reference list, keeping only IDs present in the
// known set. A missing container yields nil; a container whose entries all
// fail to resolve yields an empty, non-nil list.
func resolveRefs(node *xmlquery.Node, container, tag string, known []string) []string {
	c := child(node, container)
	if c == nil {
		return nil
	}
	knownSet := map[string]bool{}
	for _, id := range known {
		knownSet[id] = true
	}
	refs := []string{}
	for _, ref := range children(c, tag) {
		if id := ref.InnerText(); knownSet[id] {
			refs = append(refs, id)
		}
	}
	return refs
}

func (f *File) readChapters(root *xmlquery.Node, novel *model.Novel) error {
	novel.SrtChapters = nil
	for _, node := range children(child(root, "CHAPTERS"), "CHAPTER") {
		id := childText(node, "ID")
		if id == nil {
			return &errors.SchemaError{Element: "ID", Path: f.Path}
		}
		ch := &model.Chapter{BasicElement: model.BasicElement{KwVar: map[string]string{}}}
		novel.Chapters[*id] = ch
		novel.SrtChapters = append(novel.SrtChapters, *id)

		ch.Title = childText(node, "Title")
		ch.Desc = childText(node, "Desc")
		level := model.LevelChapter
		if hasChild(node, "SectionStart") {
			level = model.LevelPart
		}
		ch.Level = &level
		ch.Type = model.Ptr(decodeChapterType(hasChild(node, "Unused"),
			childText(node, "Type"), childText(node, "ChapterType")))

		// Suppression is stored both as an extension field and, in older
		// documents, as an @ prefix on the title.
		suppressTitle := ch.Title != nil && strings.HasPrefix(*ch.Title, "@")
		ch.IsTrash = model.Bool(false)
		ch.SuppressChapterBreak = model.Bool(false)
		readKwVar(node, f.Fields.Chapter, ch.KwVar)
		for _, fieldsNode := range children(node, "Fields") {
			if t := childText(fieldsNode, "Field_SuppressChapterTitle"); t != nil && *t == "1" {
				suppressTitle = true
			}
			if t := childText(fieldsNode, "Field_IsTrash"); t != nil && *t == "1" {
				ch.IsTrash = model.Bool(true)
			}
			if t := childText(fieldsNode, "Field_SuppressChapterBreak"); t != nil && *t == "1" {
				ch.SuppressChapterBreak = model.Bool(true)
			}
		}
		ch.SuppressChapterTitle = &suppressTitle

		if scenes := child(node, "Scenes"); scenes != nil {
			for _, ref := range children(scenes, "ScID") {
				if scID := ref.InnerText(); novel.Scenes[scID] != nil {
					ch.SrtScenes = append(ch.SrtScenes, scID)
				}
			}
		}
	}
	return nil
}
