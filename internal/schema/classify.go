package schema

import (
	"slices"

	"github.com/directus-community/directus-node/pkg/types"
)

// Relationship markers Directus stores in a field's special tags.
const (
	SpecialManyToOne  = "m2o"
	SpecialOneToMany  = "o2m"
	SpecialManyToMany = "m2m"
	SpecialManyToAny  = "m2a"
)

var relationshipSpecials = []string{SpecialManyToOne, SpecialOneToMany, SpecialManyToMany, SpecialManyToAny}

// RelationshipKind tags the direction of a resolved relationship.
type RelationshipKind string

const (
	ManyToOne RelationshipKind = "m2o"
	OneToMany RelationshipKind = "o2m"
)

// Relationship describes a field's resolved link to another collection.
type Relationship struct {
	Kind   RelationshipKind
	Target string
}

// ShouldSkip reports whether a field is never eligible for projection:
// system-managed alias fields, $-prefixed names, many-to-any relations, and
// locked or hidden fields. A field without meta is skipped too, since nothing
// can be decided about it.
func ShouldSkip(field types.Field) bool {
	if field.Meta == nil {
		return true
	}
	return slices.Contains(field.Meta.Special, SpecialManyToAny) ||
		field.Meta.Locked ||
		field.Meta.Hidden ||
		field.Type == "alias" ||
		(field.Field != "" && field.Field[0] == '$')
}

// IsRelationship reports whether the field carries any relationship marker.
func IsRelationship(field types.Field) bool {
	if field.Meta == nil {
		return false
	}
	for _, special := range field.Meta.Special {
		if slices.Contains(relationshipSpecials, special) {
			return true
		}
	}
	return false
}

// IsSystemField reports whether the field is one of the auto-managed fields
// filtered out of item field lists.
func IsSystemField(field types.Field) bool {
	if field.Field == "" {
		return false
	}
	if field.Field == "id" {
		return true
	}
	if field.Type == "alias" || field.Field[0] == '$' {
		return true
	}
	if field.Meta != nil && slices.Contains(field.Meta.Special, SpecialManyToAny) {
		return true
	}
	return slices.Contains(CommonSystemFields, field.Field)
}

// ResolveRelationship finds the relation entry matching the field on either
// its many or one side and classifies the direction. The first match in list
// order wins; well-formed schemas do not produce ties. A field without a name
// or an empty relation list resolves to nil, never an error.
func ResolveRelationship(field types.Field, relations []types.Relation) *Relationship {
	if field.Field == "" || len(relations) == 0 {
		return nil
	}
	for _, r := range relations {
		if r.ManyField == field.Field && r.ManyCollection == field.Collection {
			return &Relationship{Kind: ManyToOne, Target: r.OneCollection}
		}
		if r.OneField == field.Field && r.OneCollection == field.Collection {
			return &Relationship{Kind: OneToMany, Target: r.ManyCollection}
		}
	}
	return nil
}
