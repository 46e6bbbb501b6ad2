// Package model defines the in-memory representation of a novel project:
// chapters, scenes, characters, locations, items and project notes, together
// with the ordering lists and derived state that the readers, writers and the
// merger operate on. All format handlers should import these types from
// core/model rather than defining their own.
package model

// Classification is the 4-way Normal/Notes/Todo/Unused state of a chapter or
// scene. Legacy documents encode it across several overlapping fields; the
// yw7 codec translates between those encodings and this enum.
type Classification int

// Classification constants.
const (
	ClassNormal Classification = iota
	ClassNotes
	ClassTodo
	ClassUnused
)

// IsValid returns true if the classification is one of the four known states.
func (c Classification) IsValid() bool {
	return c >= ClassNormal && c <= ClassUnused
}

// Level distinguishes regular chapters from part headings.
type Level int

// Level constants.
const (
	LevelChapter Level = iota
	LevelPart
)

// Scene status values, 1-indexed as stored in the document.
const (
	StatusOutline    = 1
	StatusDraft      = 2
	StatusFirstEdit  = 3
	StatusSecondEdit = 4
	StatusDone       = 5
)

// BasicElement carries the fields shared by every entity kind.
// Nil pointer fields mean "not present in the source document"; the writer
// never emits defaults for them.
type BasicElement struct {
	// Title is the entity's display title.
	Title *string

	// Desc is the entity's description.
	Desc *string

	// KwVar holds open-ended extension fields keyed by field name.
	// The set of recognized keys is declared per entity kind by the format
	// configuration in use; keys outside the set are never read or written.
	KwVar map[string]string
}

// Chapter is a chapter or part heading owning an ordered list of scenes.
type Chapter struct {
	BasicElement

	// Level is 0 for a chapter, 1 for a part heading. Nil means a partial
	// source did not state it.
	Level *Level

	// Type is the chapter classification, nil when unstated.
	Type *Classification

	SuppressChapterTitle *bool
	IsTrash              *bool
	SuppressChapterBreak *bool

	// SrtScenes is the chapter's scene order. Every ID must resolve to a
	// scene in the owning Novel; dangling entries are dropped on read.
	SrtScenes []string
}

// Classification returns the chapter's classification, ClassNormal when
// unstated.
func (c *Chapter) Classification() Classification {
	if c.Type == nil {
		return ClassNormal
	}
	return *c.Type
}

// HeadingLevel returns the chapter's level, LevelChapter when unstated.
func (c *Chapter) HeadingLevel() Level {
	if c.Level == nil {
		return LevelChapter
	}
	return *c.Level
}

// Scene is a single scene. Content-derived counts are maintained by
// SetContent; mutating Content directly leaves them stale.
type Scene struct {
	BasicElement

	// Content is the scene text. Use SetContent to keep WordCount and
	// LetterCount consistent.
	Content *string

	// WordCount and LetterCount are derived from Content.
	WordCount   int
	LetterCount int

	// Type is the scene classification, nil when a partial source did not
	// state it. After a full read it is never weaker than the owning
	// chapter's classification.
	Type *Classification

	DoNotExport *bool

	// Status is 1..5 (Outline, Draft, 1st Edit, 2nd Edit, Done).
	Status *int

	Notes *string
	Tags  []string

	// Field1..Field4 are free rating fields, conventionally holding the
	// digits '1'..'10' where '1' means "not rated".
	Field1 *string
	Field2 *string
	Field3 *string
	Field4 *string

	AppendToPrev    *bool
	IsReactionScene *bool
	IsSubPlot       *bool

	Goal     *string
	Conflict *string
	Outcome  *string

	// Characters, Locations and Items reference entities by ID. Unresolved
	// references are dropped silently on read.
	Characters []string
	Locations  []string
	Items      []string

	// Date/Time and Day/LastsX are mutually exclusive representations of
	// the scene's point in story time.
	Date         *string
	Time         *string
	Day          *string
	LastsDays    *string
	LastsHours   *string
	LastsMinutes *string

	Image *string
}

// Classification returns the scene's classification, ClassNormal when
// unstated.
func (s *Scene) Classification() Classification {
	if s.Type == nil {
		return ClassNormal
	}
	return *s.Type
}

// WorldElement is a location or item.
type WorldElement struct {
	BasicElement

	Image *string
	AKA   *string
	Tags  []string
}

// Character extends WorldElement with character-specific fields.
type Character struct {
	WorldElement

	Notes    *string
	Bio      *string
	Goals    *string
	FullName *string
	IsMajor  *bool
}

// Novel is the project root. It owns every entity map together with the
// ordering list that defines presentation order; map iteration order is
// irrelevant everywhere.
type Novel struct {
	BasicElement

	AuthorName  *string
	AuthorBio   *string
	FieldTitle1 *string
	FieldTitle2 *string
	FieldTitle3 *string
	FieldTitle4 *string

	WordCountStart *int
	WordTarget     *int

	Chapters    map[string]*Chapter
	SrtChapters []string

	Scenes map[string]*Scene

	Locations    map[string]*WorldElement
	SrtLocations []string

	Items    map[string]*WorldElement
	SrtItems []string

	Characters    map[string]*Character
	SrtCharacters []string

	ProjectNotes map[string]*BasicElement
	SrtPrjNotes  []string

	// Languages lists the language tag codes detected inside scene text.
	// Nil means "not yet detected".
	Languages []string

	LanguageCode *string
	CountryCode  *string
}

// NewNovel returns an empty project with all entity maps allocated.
func NewNovel() *Novel {
	return &Novel{
		BasicElement: BasicElement{KwVar: map[string]string{}},
		Chapters:     map[string]*Chapter{},
		Scenes:       map[string]*Scene{},
		Locations:    map[string]*WorldElement{},
		Items:        map[string]*WorldElement{},
		Characters:   map[string]*Character{},
		ProjectNotes: map[string]*BasicElement{},
	}
}

// AdjustSceneTypes propagates each chapter's classification onto its scenes:
// a scene under a Notes/Todo/Unused chapter is coerced to the same state.
func (n *Novel) AdjustSceneTypes() {
	for _, chID := range n.SrtChapters {
		ch := n.Chapters[chID]
		if ch == nil || ch.Classification() == ClassNormal {
			continue
		}
		for _, scID := range ch.SrtScenes {
			if sc := n.Scenes[scID]; sc != nil {
				sc.Type = Ptr(ch.Classification())
			}
		}
	}
}

// Str returns a pointer to v. Convenience for optional fields.
func Str(v string) *string { return &v }

// Int returns a pointer to v. Convenience for optional fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v. Convenience for optional fields.
func Bool(v bool) *bool { return &v }

// Ptr returns a pointer to v. Convenience for optional enum fields.
func Ptr[T any](v T) *T { return &v }
