package schema

import "github.com/directus-community/directus-node/pkg/types"

// SystemCollectionPrefix marks Directus system collections.
const SystemCollectionPrefix = "directus_"

// The two system collections that stay browsable because the connector
// manages them through dedicated resources.
const (
	UsersCollection = "directus_users"
	FilesCollection = "directus_files"
)

// CommonSystemFields are auto-managed audit fields present on every
// collection. They are filtered out of the editable field list.
var CommonSystemFields = []string{"date_created", "date_updated", "user_created", "user_updated", "id"}

// UserSystemFields are sensitive or internal user fields never exposed for
// editing.
var UserSystemFields = []string{
	"password",
	"token",
	"last_access",
	"last_page",
	"provider",
	"external_identifier",
	"auth_data",
	"tfa_secret",
}

// FileSystemFields are technical file metadata managed by the Directus
// storage layer.
var FileSystemFields = []string{
	"storage",
	"filename_disk",
	"filename_download",
	"type",
	"filesize",
	"width",
	"height",
	"duration",
	"embed",
	"uploaded_by",
	"uploaded_on",
	"modified_by",
	"modified_on",
	"charset",
	"focal_point_x",
	"focal_point_y",
}

// VisibleCollections filters out system collections, keeping folder
// groupings (no schema) browsable and always keeping the users and files
// pseudo-collections.
func VisibleCollections(collections []types.Collection) []types.Collection {
	visible := make([]types.Collection, 0, len(collections))
	for _, c := range collections {
		if c.Collection == "" {
			continue
		}
		if c.Collection == UsersCollection || c.Collection == FilesCollection {
			visible = append(visible, c)
			continue
		}
		if len(c.Collection) >= len(SystemCollectionPrefix) &&
			c.Collection[:len(SystemCollectionPrefix)] == SystemCollectionPrefix &&
			c.HasSchema() {
			continue
		}
		visible = append(visible, c)
	}
	return visible
}
