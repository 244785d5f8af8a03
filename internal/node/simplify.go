package node

import "github.com/directus-community/directus-node/pkg/types"

// Allow-lists for the simplified record shapes. Sensitive keys (password,
// token, auth_data) are never on these lists, so they cannot leak through.
var (
	simplifiedUserKeys = []string{
		"id", "email", "first_name", "last_name", "status", "role", "date_created", "last_access",
	}
	simplifiedFileKeys = []string{
		"id", "filename_download", "title", "type", "filesize", "width", "height", "date_created", "date_updated",
	}
)

// SimplifyUser copies the allow-listed keys of a user record. Only absent and
// null values are dropped; zero values like an empty status survive.
func SimplifyUser(record types.Record) types.Record {
	return copyAllowed(record, simplifiedUserKeys)
}

// SimplifyFile copies the allow-listed keys of a file record. A filesize of 0
// is a legitimate value and is kept.
func SimplifyFile(record types.Record) types.Record {
	return copyAllowed(record, simplifiedFileKeys)
}

func copyAllowed(record types.Record, keys []string) types.Record {
	out := make(types.Record, len(keys))
	for _, key := range keys {
		if value, ok := record[key]; ok && value != nil {
			out[key] = value
		}
	}
	return out
}
