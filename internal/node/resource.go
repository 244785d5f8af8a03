package node

import (
	"fmt"
	"slices"

	"github.com/directus-community/directus-node/internal/api"
)

// Resource selects which Directus resource an operation acts on.
type Resource string

const (
	ResourceItem Resource = "item"
	ResourceUser Resource = "user"
	ResourceFile Resource = "file"
)

// Operation is one configurable action. Raw variants take a literal JSON
// body (or query, for reads) instead of the structured field list.
type Operation string

const (
	OpCreate    Operation = "create"
	OpCreateRaw Operation = "createRaw"
	OpGet       Operation = "get"
	OpGetRaw    Operation = "getRaw"
	OpGetAll    Operation = "getAll"
	OpGetAllRaw Operation = "getAllRaw"
	OpUpdate    Operation = "update"
	OpUpdateRaw Operation = "updateRaw"
	OpDelete    Operation = "delete"
	OpInvite    Operation = "invite" // user only
	OpUpload    Operation = "upload" // file only
	OpImport    Operation = "import" // file only
)

var operationsByResource = map[Resource][]Operation{
	ResourceItem: {OpCreate, OpCreateRaw, OpGet, OpGetRaw, OpGetAll, OpGetAllRaw, OpUpdate, OpUpdateRaw, OpDelete},
	ResourceUser: {OpCreate, OpCreateRaw, OpGet, OpGetRaw, OpGetAll, OpGetAllRaw, OpUpdate, OpUpdateRaw, OpDelete, OpInvite},
	ResourceFile: {OpGet, OpGetRaw, OpGetAll, OpGetAllRaw, OpUpdate, OpUpdateRaw, OpDelete, OpUpload, OpImport},
}

// ParseResource validates a resource string from the node configuration.
func ParseResource(s string) (Resource, error) {
	switch r := Resource(s); r {
	case ResourceItem, ResourceUser, ResourceFile:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", api.ErrUnknownResource, s)
	}
}

// ParseOperation validates an operation string against the declared set for
// the given resource. Values outside the enumeration indicate a
// configuration or version mismatch and are always fatal.
func ParseOperation(resource Resource, s string) (Operation, error) {
	op := Operation(s)
	if slices.Contains(operationsByResource[resource], op) {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q for resource %q", api.ErrUnknownOperation, s, resource)
}
