package schema

import (
	"slices"
	"strings"

	"github.com/directus-community/directus-node/pkg/types"
)

// EditorKind is the UI-editable field kind a remote field projects into.
type EditorKind string

const (
	KindString   EditorKind = "string" // short free text
	KindText     EditorKind = "text"   // long free text / JSON
	KindNumber   EditorKind = "number"
	KindBoolean  EditorKind = "boolean"
	KindDateTime EditorKind = "dateTime"
	KindOptions  EditorKind = "options" // enumerated choice
	KindFile     EditorKind = "file"    // reference to an existing file ID or upload
)

// ProjectedField is the UI-facing projection of a remote field. It is
// recomputed on every configuration-time lookup and never persisted.
type ProjectedField struct {
	Name        string
	DisplayName string
	Kind        EditorKind
	Description string
	Required    bool
	Options     []types.Choice
}

const fileHelpText = "Upload a file or select from existing files."

// Project maps a classified field to its editable projection, or nil when the
// field is excluded. isCreate controls the required marker: required is only
// surfaced as a hard constraint on create and update flows.
func Project(field types.Field, isCreate bool, relations []types.Relation) *ProjectedField {
	if ShouldSkip(field) {
		return nil
	}

	required := isCreate && field.Meta != nil && field.Meta.Required
	displayName := FormatDisplayName(field)
	if required {
		displayName += " *"
	}

	projected := &ProjectedField{
		Name:        field.Field,
		DisplayName: displayName,
		Kind:        KindString,
		Required:    required,
	}
	if field.Meta != nil {
		projected.Description = field.Meta.Note
	}

	fieldType := strings.ToLower(field.Type)
	interfaceType := ""
	if field.Meta != nil {
		interfaceType = strings.ToLower(field.Meta.Interface)
	}

	// First match wins. Choice options take precedence over everything,
	// including the zero-choice case: an empty option list is valid, just
	// nothing is selectable.
	if field.Meta != nil && field.Meta.Options != nil && field.Meta.Options.Choices != nil {
		projected.Kind = KindOptions
		projected.Options = slices.Clone(field.Meta.Options.Choices)
		return projected
	}

	if IsRelationship(field) {
		if rel := ResolveRelationship(field, relations); rel != nil {
			if rel.Target == FilesCollection {
				projected.Kind = KindFile
				projected.Description = appendHelp(projected.Description, fileHelpText)
				return projected
			}
			help := strings.ToUpper(string(rel.Kind)) + " relationship to " + FormatTitle(rel.Target) + " collection."
			projected.Description = appendHelp(projected.Description, help)
			return projected
		}
	}

	switch interfaceType {
	case "file", "file-image", "file-video":
		projected.Kind = KindFile
		projected.Description = appendHelp(projected.Description, fileHelpText)
		return projected
	}

	switch {
	case fieldType == "boolean" || fieldType == "toggle" ||
		interfaceType == "toggle" || interfaceType == "boolean":
		projected.Kind = KindBoolean
	case slices.Contains([]string{"date", "datetime", "timestamp"}, fieldType) ||
		slices.Contains([]string{"datetime", "date"}, interfaceType):
		projected.Kind = KindDateTime
	case slices.Contains([]string{"integer", "biginteger", "float", "decimal"}, fieldType) ||
		slices.Contains([]string{"numeric", "integer", "decimal", "float"}, interfaceType):
		projected.Kind = KindNumber
	case fieldType == "text" || interfaceType == "textarea":
		projected.Kind = KindText
	case fieldType == "json" || interfaceType == "json":
		projected.Kind = KindText
		projected.Description = appendHelp(projected.Description, "Enter JSON data.")
	}
	return projected
}

// appendHelp joins help text onto an existing description, newline-separated.
func appendHelp(description, help string) string {
	return strings.TrimSpace(description + "\n" + help)
}
