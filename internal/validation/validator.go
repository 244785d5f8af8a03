package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validator checks the user-controlled values that end up inside request
// paths and bodies. Collection names and record IDs are interpolated into
// URL paths, so anything that could change the path shape is rejected here
// before a request is built.
type Validator struct {
	collectionPattern  *regexp.Regexp
	idPattern          *regexp.Regexp
	profileNamePattern *regexp.Regexp
	emailPattern       *regexp.Regexp
}

// NewValidator creates a validator instance.
func NewValidator() *Validator {
	return &Validator{
		// Directus collection names: identifier characters only.
		collectionPattern: regexp.MustCompile(`^[a-zA-Z0-9_]{1,64}$`),

		// Record IDs: UUIDs or numeric/short text keys. No path separators.
		idPattern: regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,128}$`),

		// Profile name: alphanumeric with underscores, hyphens, dots.
		profileNamePattern: regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`),

		// Deliberately loose; the server does the real verification.
		emailPattern: regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	}
}

// ValidateCollectionName validates a collection name before it is placed in a
// request path.
func (v *Validator) ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if !v.collectionPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name: %q", name)
	}
	return nil
}

// ValidateID validates a record ID before it is placed in a request path.
func (v *Validator) ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if !v.idPattern.MatchString(id) {
		return fmt.Errorf("invalid ID: %q", id)
	}
	return nil
}

// ValidateProfileName validates a stored credential profile name.
func (v *Validator) ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if !v.profileNamePattern.MatchString(name) {
		return fmt.Errorf("invalid profile name: %q", name)
	}
	return nil
}

// ValidateEmail validates an email address for the user invite operation.
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !v.emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %q", email)
	}
	return nil
}

// ValidateBaseURL validates a Directus instance URL.
func (v *Validator) ValidateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL is missing a host")
	}
	return nil
}

// SanitizeToken trims whitespace a user may have pasted around a token.
func (v *Validator) SanitizeToken(token string) string {
	return strings.TrimSpace(token)
}
