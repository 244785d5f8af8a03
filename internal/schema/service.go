package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/directus-community/directus-node/pkg/types"
)

// Introspector is the read-only slice of the Directus API this package needs.
// Implemented by the api client; tests supply fakes.
type Introspector interface {
	Collections(ctx context.Context) ([]types.Collection, error)
	Fields(ctx context.Context, collection string) ([]types.Field, error)
	Relations(ctx context.Context) ([]types.Relation, error)
	Roles(ctx context.Context) ([]types.Role, error)
	BaseURL() string
}

// Service turns raw Directus schema metadata into projected fields. The
// relation cache is owned here rather than being a package global so tests
// stay isolated.
type Service struct {
	introspector Introspector
	cache        *RelationCache
}

// NewService creates a schema service around an introspector.
func NewService(introspector Introspector, cache *RelationCache) *Service {
	if cache == nil {
		cache = NewRelationCache()
	}
	return &Service{introspector: introspector, cache: cache}
}

// Collections returns the collections a user may select, with system
// collections filtered per VisibleCollections.
func (s *Service) Collections(ctx context.Context) ([]types.Collection, error) {
	collections, err := s.introspector.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	return VisibleCollections(collections), nil
}

// Roles returns all roles visible to the token.
func (s *Service) Roles(ctx context.Context) ([]types.Role, error) {
	return s.introspector.Roles(ctx)
}

// Fields returns the raw fields of a collection, sorted by meta sort order,
// with system fields removed.
func (s *Service) Fields(ctx context.Context, collection string) ([]types.Field, error) {
	fields, err := s.introspector.Fields(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fields for collection '%s': %w", collection, err)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return metaSort(fields[i]) < metaSort(fields[j])
	})
	kept := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		if !IsSystemField(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// ProjectedFields classifies and projects every editable field of a
// collection. Relations are only fetched (through the cache) when at least
// one field carries a relationship marker.
func (s *Service) ProjectedFields(ctx context.Context, collection string, isCreate bool) ([]ProjectedField, error) {
	fields, err := s.Fields(ctx, collection)
	if err != nil {
		return nil, err
	}

	var relations []types.Relation
	for _, f := range fields {
		if IsRelationship(f) {
			relations = s.cache.RelationsFor(ctx, s.introspector.BaseURL(), collection, s.introspector.Relations)
			break
		}
	}

	projected := make([]ProjectedField, 0, len(fields))
	for _, f := range fields {
		if p := Project(f, isCreate, relations); p != nil {
			projected = append(projected, *p)
		}
	}
	return projected, nil
}

func metaSort(f types.Field) int {
	if f.Meta == nil {
		return 0
	}
	return f.Meta.Sort
}
