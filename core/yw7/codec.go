package yw7

import "github.com/plotloom/plotloom/core/model"

// Format version 7 stores the 4-way Normal/Notes/Todo/Unused classification
// across overlapping legacy fields: an explicit Unused marker plus a scene
// type extension field (scenes), or an Unused marker plus the old Type and
// the newer ChapterType elements (chapters). The functions below are the
// only place those encodings exist; the model carries the decoded enum.

// decodeSceneType derives a scene classification from the Unused flag and
// the Field_SceneType extension field ("" when the field is absent).
func decodeSceneType(unused bool, fieldType string) model.Classification {
	switch fieldType {
	case "1":
		return model.ClassNotes
	case "2":
		return model.ClassTodo
	}
	if unused {
		return model.ClassUnused
	}
	return model.ClassNormal
}

// encodeSceneType expands a scene classification back into the Unused flag
// and the Field_SceneType value; hasField is false when the extension field
// must be absent.
func encodeSceneType(c model.Classification) (unused bool, fieldType string, hasField bool) {
	switch c {
	case model.ClassNotes:
		return true, "1", true
	case model.ClassTodo:
		return true, "2", true
	case model.ClassUnused:
		return true, "0", true
	default:
		return false, "", false
	}
}

// decodeChapterType derives a chapter classification, preferring the newest
// field present: ChapterType, then the legacy Type, then the Unused flag.
// Nil pointers mean the element is absent.
func decodeChapterType(unused bool, legacyType, chapterType *string) model.Classification {
	if chapterType != nil {
		switch *chapterType {
		case "2":
			return model.ClassTodo
		case "1":
			return model.ClassNotes
		}
		if unused {
			return model.ClassUnused
		}
		return model.ClassNormal
	}
	if legacyType != nil {
		if *legacyType == "1" {
			return model.ClassNotes
		}
		if unused {
			return model.ClassUnused
		}
	}
	return model.ClassNormal
}

// encodeChapterType expands a chapter classification into the Unused flag
// plus the legacy Type and newer ChapterType values, writing both so that
// older format readers still agree on the unused/notes state.
func encodeChapterType(c model.Classification) (unused bool, legacyType, chapterType string) {
	switch c {
	case model.ClassNotes:
		return true, "1", "1"
	case model.ClassTodo:
		return true, "1", "2"
	case model.ClassUnused:
		return true, "1", "0"
	default:
		return false, "0", "0"
	}
}
