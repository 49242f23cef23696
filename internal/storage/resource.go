package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var resourceKeyInvalid = regexp.MustCompile(`[^a-zA-Z0-9-_]`)

// sanitizeResourceKey collapses an arbitrary key onto [A-Za-z0-9-_]. The
// mapping is many-to-one, so distinct raw keys can alias one directory;
// accepted given the low cardinality of expected keys.
func sanitizeResourceKey(key string) string {
	sanitized := resourceKeyInvalid.ReplaceAllString(key, "_")
	if strings.TrimSpace(sanitized) == "" {
		return "resource_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return sanitized
}

// resolveRoot maps a resource key to its physical root directory, creating
// it on first use. Deterministic for any non-degenerate key.
func (e *Engine) resolveRoot(resource string) (root, sanitized string, err error) {
	if strings.TrimSpace(resource) == "" {
		return "", "", fmt.Errorf("%w: resource key must not be empty", ErrInvalidArgument)
	}

	sanitized = sanitizeResourceKey(resource)
	root = filepath.Join(e.basePath, sanitized)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create resource root: %w", err)
	}
	return root, sanitized, nil
}
