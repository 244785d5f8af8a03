package node

import (
	"github.com/directus-community/directus-node/pkg/types"
)

// Host is the slice of the workflow runtime the connector depends on.
// Parameter resolution, credential storage, and binary data access all live
// on the host side; the connector only consumes them.
type Host interface {
	// Parameter resolves a node parameter for one input record. The second
	// return is false when the parameter is not set.
	Parameter(name string, index int) (any, bool)

	// CurrentParameter resolves a parameter at configuration time, while the
	// user is still editing the node. Used only for dynamic option lists.
	CurrentParameter(name string) (any, bool)

	// Credentials returns the stored Directus credentials.
	Credentials() (types.Credentials, error)

	// Binary returns the binary payload attached to an input record under
	// the given property key.
	Binary(index int, key string) (*types.BinaryData, error)
}
