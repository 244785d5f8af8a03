package node

import (
	"context"
	"fmt"
	"slices"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/internal/schema"
	"github.com/directus-community/directus-node/pkg/types"
)

// Dynamic option lists shown by the host UI at configuration time. Every
// loader wraps its failure with a "Failed to load <noun>" prefix so the UI
// can surface it directly.

// CollectionOptions lists the selectable collections.
func CollectionOptions(ctx context.Context, svc *schema.Service) ([]types.Option, error) {
	collections, err := svc.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("Failed to load collections: %w", err)
	}
	options := make([]types.Option, 0, len(collections))
	for _, c := range collections {
		options = append(options, types.Option{Name: c.Collection, Value: c.Collection})
	}
	return options, nil
}

// CollectionFieldOptions lists the editable fields of the currently selected
// collection, projected for the currently selected operation.
func CollectionFieldOptions(ctx context.Context, svc *schema.Service, host Host) ([]types.Option, error) {
	collection := currentString(host, "collection")
	if collection == "" {
		return nil, &api.ValidationError{Field: "collection", Message: "Collection parameter is required"}
	}
	operation := currentString(host, "operation")
	isCreate := operation == string(OpCreate)

	fields, err := svc.ProjectedFields(ctx, collection, isCreate)
	if err != nil {
		return nil, fmt.Errorf("Failed to load fields: %w", err)
	}

	options := make([]types.Option, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" || f.DisplayName == "" {
			continue
		}
		options = append(options, types.Option{
			Name:        f.DisplayName,
			Value:       f.Name,
			Description: f.Description,
		})
	}
	return options, nil
}

// RoleOptions lists roles for the user-invite role selector.
func RoleOptions(ctx context.Context, svc *schema.Service) ([]types.Option, error) {
	roles, err := svc.Roles(ctx)
	if err != nil {
		return nil, fmt.Errorf("Failed to load roles: %w", err)
	}
	options := make([]types.Option, 0, len(roles))
	for _, role := range roles {
		name := role.Name
		if name == "" {
			name = role.ID
		}
		options = append(options, types.Option{Name: name, Value: role.ID})
	}
	return options, nil
}

// UserFieldOptions lists the editable fields of the users collection, minus
// the sensitive and auto-managed ones.
func UserFieldOptions(ctx context.Context, svc *schema.Service) ([]types.Option, error) {
	options, err := systemFieldOptions(ctx, svc, schema.UsersCollection, schema.UserSystemFields)
	if err != nil {
		return nil, fmt.Errorf("Failed to load user fields: %w", err)
	}
	return options, nil
}

// FileFieldOptions lists the editable fields of the files collection, minus
// the storage-managed metadata.
func FileFieldOptions(ctx context.Context, svc *schema.Service) ([]types.Option, error) {
	options, err := systemFieldOptions(ctx, svc, schema.FilesCollection, schema.FileSystemFields)
	if err != nil {
		return nil, fmt.Errorf("Failed to load file fields: %w", err)
	}
	return options, nil
}

// systemFieldOptions builds the option list of a system collection. The
// required marker here is not operation-sensitive: these lists only back
// update flows.
func systemFieldOptions(ctx context.Context, svc *schema.Service, collection string, excluded []string) ([]types.Option, error) {
	fields, err := svc.Fields(ctx, collection)
	if err != nil {
		return nil, err
	}

	options := make([]types.Option, 0, len(fields))
	for _, f := range fields {
		if schema.ShouldSkip(f) || slices.Contains(excluded, f.Field) {
			continue
		}
		name := schema.FormatDisplayName(f)
		if f.Meta != nil && f.Meta.Required {
			name += " *"
		}
		option := types.Option{Name: name, Value: f.Field}
		if f.Meta != nil {
			option.Description = f.Meta.Note
		}
		options = append(options, option)
	}
	return options, nil
}

func currentString(host Host, name string) string {
	value, ok := host.CurrentParameter(name)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
