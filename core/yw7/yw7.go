// Package yw7 reads and writes yWriter 7 project documents.
//
// The reader parses the on-disk XML into a fresh model.Novel, deriving
// computed fields and normalizing legacy encodings. The writer updates the
// previously parsed document tree in place, so attributes and hand-authored
// structure the authoring application depends on survive a round trip, and
// then post-processes the serialized text (CDATA wrapping, entity
// unescaping) the way the authoring application expects.
//
// Parsing is built on github.com/antchfx/xmlquery, which uses Go's
// encoding/xml internally and inherits its security properties: external
// entities are never fetched.
package yw7

import (
	"github.com/plotloom/plotloom/core/model"
)

// File format constants.
const (
	// Extension is the project file extension.
	Extension = ".yw7"

	// lockSuffix appended to the project path names the advisory lock
	// marker placed by the authoring application.
	lockSuffix = ".lock"

	// backupSuffix names the sibling the previous file is renamed to
	// before an overwrite.
	backupSuffix = ".bak"
)

// File is a yWriter 7 project document bound to a path. A File is read once,
// optionally has its Novel replaced by a merge/split pass, and is written
// once; the parsed tree is retained between the two so writes are minimal
// diffs against the original document.
type File struct {
	// Path is the location of the project file.
	Path string

	// Novel is the project model, populated by Read.
	Novel *model.Novel

	// Fields declares the extension field names recognized per entity
	// kind. Defaults to the format version 7 set.
	Fields model.FieldConfig

	// SourceHash is the BLAKE3 fingerprint of the bytes last read,
	// letting callers detect on-disk changes between read and write.
	SourceHash string

	// doc is the document tree retained from the last read, nil for a
	// project that has never been read.
	doc *document
}

// NewFile returns a File for the given path with the default field set.
func NewFile(path string) *File {
	return &File{
		Path:   path,
		Fields: model.DefaultFields,
	}
}
