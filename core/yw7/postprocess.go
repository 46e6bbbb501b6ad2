package yw7

import (
	"html"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// cdataTags lists the elements whose text yWriter stores as CDATA.
var cdataTags = []string{
	"Title", "AuthorName", "Bio", "Desc",
	"FieldTitle1", "FieldTitle2", "FieldTitle3", "FieldTitle4",
	"LaTeXHeaderFile", "Tags", "AKA", "ImageFile", "FullName",
	"Goals", "Notes", "RTFFile", "SceneContent",
	"Outcome", "Goal", "Conflict",
}

// postprocess turns serialized XML into the wire form yWriter expects:
// declaration header, CDATA sections around prose-bearing tags, and plain
// text instead of XML entities. Re-running it on its own output is a no-op,
// which the header guard guarantees.
func postprocess(text string, hasChapters bool) []byte {
	if strings.HasPrefix(text, xmlHeader) {
		return []byte(text)
	}
	// The parser keeps CDATA sections it saw on the way in; unwrap them
	// first so the rewrap below cannot nest one inside another.
	text = strings.ReplaceAll(text, "<![CDATA[", "")
	text = strings.ReplaceAll(text, "]]>", "")
	for _, tag := range cdataTags {
		text = strings.ReplaceAll(text, "<"+tag+">", "<"+tag+"><![CDATA[")
		text = strings.ReplaceAll(text, "</"+tag+">", "]]></"+tag+">")
	}
	text = strings.ReplaceAll(text, "<![CDATA[]]>", "")
	if !hasChapters {
		text = strings.ReplaceAll(text, "<CHAPTERS />", "<CHAPTERS></CHAPTERS>")
	}
	text = html.UnescapeString(text)
	return []byte(xmlHeader + text)
}
