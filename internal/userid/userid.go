// Package userid resolves which user's résumés the client operates on.
package userid

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Default is the single-tenant user the bundled web page has always used.
const Default = "bb8c3e4a-d9e5-5a19-8a2e-c5a8e3f4e5d6"

// Source describes where the user id may come from.
type Source struct {
	// Value is an inline id provided via configuration, environment or flags.
	Value string
	// File points to a file containing the id. When set it takes precedence over Value.
	File string
}

// Resolve returns the configured user id, trimmed but otherwise as written:
// the backend compares ids as plain strings. With neither File nor Value set
// it falls back to Default. Ids must parse as UUIDs.
func Resolve(src Source) (string, error) {
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading user id from file %q: %w", file, err)
		}

		value := strings.TrimSpace(string(data))
		if value == "" {
			return "", fmt.Errorf("user id file %q is empty", file)
		}
		src.Value = value
	}

	value := strings.TrimSpace(src.Value)
	if value == "" {
		value = Default
	}

	if err := uuid.Validate(value); err != nil {
		return "", fmt.Errorf("user id %q is not a valid uuid: %w", value, err)
	}

	return value, nil
}
