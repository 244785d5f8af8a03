package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/directus-community/directus-node/pkg/types"
)

// Typed accessors over the host's untyped parameter values. Hosts hand back
// whatever their expression engine produced, so each accessor normalizes the
// shapes that engine can reasonably emit.

func stringParam(host Host, name string, index int) string {
	value, ok := host.Parameter(name, index)
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolParam(host Host, name string, index int, fallback bool) bool {
	value, ok := host.Parameter(name, index)
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

func intParam(host Host, name string, index int, fallback int) int {
	value, ok := host.Parameter(name, index)
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

// fieldListParam reads a field/value list parameter. The host may deliver it
// as a typed slice, a generic slice of maps, or wrapped in the
// {fields: {field: [...]}} collection shape some hosts use.
func fieldListParam(host Host, name string, index int) []types.FieldValue {
	value, ok := host.Parameter(name, index)
	if !ok || value == nil {
		return nil
	}
	return parseFieldValues(value)
}

func parseFieldValues(value any) []types.FieldValue {
	switch v := value.(type) {
	case []types.FieldValue:
		return v
	case []any:
		pairs := make([]types.FieldValue, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["name"].(string)
			pairs = append(pairs, types.FieldValue{Name: name, Value: m["value"]})
		}
		return pairs
	case map[string]any:
		if inner, ok := v["fields"].(map[string]any); ok {
			return parseFieldValues(inner["field"])
		}
		return nil
	default:
		return nil
	}
}

// fieldSelectionParam reads the optional field-selection list of a read
// operation: either a slice of names or a comma-separated string.
func fieldSelectionParam(host Host, index int) []string {
	value, ok := host.Parameter("fields", index)
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok && s != "" {
				names = append(names, s)
			}
		}
		return names
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		return names
	default:
		return nil
	}
}
