package types

import "encoding/json"

// Credentials holds the connection settings for a Directus instance.
type Credentials struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Choice is one selectable option of an enumerated field.
type Choice struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// FieldOptions carries interface-specific options reported by Directus.
// Only choices are interpreted; everything else passes through untouched.
type FieldOptions struct {
	Choices []Choice                   `json:"choices,omitempty"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// FieldMeta is the meta block of a Directus field.
type FieldMeta struct {
	Special     []string      `json:"special,omitempty"`
	Sort        int           `json:"sort,omitempty"`
	Required    bool          `json:"required,omitempty"`
	Note        string        `json:"note,omitempty"`
	Options     *FieldOptions `json:"options,omitempty"`
	Interface   string        `json:"interface,omitempty"`
	Locked      bool          `json:"locked,omitempty"`
	Hidden      bool          `json:"hidden,omitempty"`
	DisplayName string        `json:"display_name,omitempty"`
}

// FieldSchema is the schema block of a Directus field. Only the foreign key
// target is consumed here.
type FieldSchema struct {
	ForeignKeyTable string `json:"foreign_key_table,omitempty"`
}

// Field is one schema field as reported by the fields endpoint.
type Field struct {
	Field      string       `json:"field"`
	Type       string       `json:"type"`
	Collection string       `json:"collection,omitempty"`
	Meta       *FieldMeta   `json:"meta,omitempty"`
	Schema     *FieldSchema `json:"schema,omitempty"`
}

// Collection is one collection as reported by the collections endpoint.
// Schema is kept raw: a null schema marks a folder grouping rather than a
// real table, and that distinction is all the connector needs.
type Collection struct {
	Collection string          `json:"collection"`
	Schema     json.RawMessage `json:"schema,omitempty"`
	Meta       json.RawMessage `json:"meta,omitempty"`
}

// HasSchema reports whether the collection is backed by a real table.
func (c Collection) HasSchema() bool {
	return len(c.Schema) > 0 && string(c.Schema) != "null"
}

// Relation is one inter-collection link. Any side may be empty depending on
// the relation shape. Relations are read-only to this connector.
type Relation struct {
	ManyCollection string `json:"many_collection,omitempty"`
	OneCollection  string `json:"one_collection,omitempty"`
	ManyField      string `json:"many_field,omitempty"`
	OneField       string `json:"one_field,omitempty"`
}

// Role is a Directus role, loaded for the user-invite option list.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Option is one entry of a dynamically populated selection list shown by the
// host UI at configuration time.
type Option struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// FieldValue is one user-entered field/value pair from the host's field list
// parameter. Pairs are applied in list order; later entries for the same name
// overwrite earlier ones.
type FieldValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Record is a single Directus record in its generic wire shape.
type Record = map[string]any

// BinaryData is a binary payload handed over by the host runtime for file
// uploads, together with its metadata.
type BinaryData struct {
	Data     []byte `json:"-"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}
