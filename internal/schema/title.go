package schema

import (
	"regexp"
	"strings"

	"github.com/directus-community/directus-node/pkg/types"
)

// Small words kept lowercase in the middle of a title.
var lowercaseWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "up": true, "yet": true,
}

var (
	camelBoundary   = regexp.MustCompile(`([a-z])([A-Z])`)
	acronymBoundary = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	wordSeparator   = regexp.MustCompile(`[\s_-]+`)
)

// FormatTitle renders an identifier as an English title: camelCase is split,
// separators become spaces, and small words stay lowercase except at either
// end. Used for collection names in relationship help text.
func FormatTitle(input string) string {
	if input == "" {
		return ""
	}
	decamelized := camelBoundary.ReplaceAllString(input, "$1 $2")
	decamelized = acronymBoundary.ReplaceAllString(decamelized, "$1 $2")
	words := wordSeparator.Split(decamelized, -1)

	out := make([]string, 0, len(words))
	for i, word := range words {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if i != 0 && i != len(words)-1 && lowercaseWords[lower] {
			out = append(out, lower)
			continue
		}
		out = append(out, strings.ToUpper(word[:1])+strings.ToLower(word[1:]))
	}
	return strings.Join(out, " ")
}

// FormatDisplayName returns the field's display label: the meta override when
// present, otherwise the field name with underscores as spaces and each word
// capitalized.
func FormatDisplayName(field types.Field) string {
	if field.Meta != nil && field.Meta.DisplayName != "" {
		return field.Meta.DisplayName
	}
	return capitalizeWords(strings.ReplaceAll(field.Field, "_", " "))
}

// capitalizeWords uppercases the first letter of every space-separated word.
func capitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
