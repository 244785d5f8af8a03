package node

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/directus-community/directus-node/internal/api"
	"github.com/directus-community/directus-node/pkg/types"
)

// BuildBody folds a field/value list into a request body in list order, so a
// later entry for the same field overwrites an earlier one. Entries with an
// empty name or a nil value are dropped; legitimate zero values (false, 0,
// "") are kept. Field names the collection does not know are left for the
// server to ignore.
func BuildBody(pairs []types.FieldValue) map[string]any {
	body := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		if pair.Name == "" || pair.Value == nil {
			continue
		}
		body[pair.Name] = CoerceValue(pair.Value)
	}
	return body
}

// CoerceValue passes strings, numbers, booleans, objects and arrays through
// unchanged and stringifies everything else. No schema-driven type coercion
// happens here; the host's parameter UI already constrains input shape.
func CoerceValue(value any) any {
	switch value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number,
		map[string]any, []any:
		return value
	case nil:
		return nil
	default:
		return fmt.Sprintf("%v", value)
	}
}

// ParseRawBody parses the raw-JSON parameter into a request body object.
// Strings are parsed as JSON; already-decoded objects pass through. Anything
// that is not a JSON object fails with an InvalidPayloadError before any
// network call.
func ParseRawBody(value any) (map[string]any, error) {
	switch v := value.(type) {
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil, &api.InvalidPayloadError{Cause: err}
		}
		return decoded, nil
	case map[string]any:
		return v, nil
	case nil:
		return nil, &api.InvalidPayloadError{Cause: fmt.Errorf("no JSON data provided")}
	default:
		return nil, &api.InvalidPayloadError{Cause: fmt.Errorf("expected a JSON object, got %T", value)}
	}
}

// ParseRawQuery parses the raw-JSON parameter of a read operation into query
// parameters. String values pass through verbatim; everything else is
// re-encoded as JSON, which is how Directus expects filter objects on the
// query string.
func ParseRawQuery(value any) (url.Values, error) {
	decoded, err := ParseRawBody(value)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	for key, v := range decoded {
		switch s := v.(type) {
		case string:
			query.Set(key, s)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, &api.InvalidPayloadError{Cause: err}
			}
			query.Set(key, string(encoded))
		}
	}
	return query, nil
}
