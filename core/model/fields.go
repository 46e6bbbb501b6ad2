package model

// FieldConfig declares the extension field names (KwVar keys) recognized for
// each entity kind. The set is supplied by the document format version in
// use rather than hard-coded per type, and callers may extend it.
type FieldConfig struct {
	Project     []string
	Chapter     []string
	Scene       []string
	Character   []string
	Location    []string
	Item        []string
	ProjectNote []string
}

// DefaultFields is the field set of format version 7.
var DefaultFields = FieldConfig{
	Project: []string{
		"Field_LanguageCode",
		"Field_CountryCode",
	},
	Scene: []string{
		"Field_SceneArcs",
		"Field_SceneStyle",
	},
}

// Extend returns a copy of the config with the extra field names appended
// per kind. The receiver is not modified.
func (c FieldConfig) Extend(extra FieldConfig) FieldConfig {
	return FieldConfig{
		Project:     append(append([]string{}, c.Project...), extra.Project...),
		Chapter:     append(append([]string{}, c.Chapter...), extra.Chapter...),
		Scene:       append(append([]string{}, c.Scene...), extra.Scene...),
		Character:   append(append([]string{}, c.Character...), extra.Character...),
		Location:    append(append([]string{}, c.Location...), extra.Location...),
		Item:        append(append([]string{}, c.Item...), extra.Item...),
		ProjectNote: append(append([]string{}, c.ProjectNote...), extra.ProjectNote...),
	}
}
