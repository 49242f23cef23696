package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// normalizePath converts a client-supplied path into a canonical
// forward-slash relative path: backslashes become slashes, surrounding
// whitespace and slashes are trimmed, empty segments collapse. The empty
// string denotes the resource root and is rejected only when required.
//
// Any ".." substring fails with ErrAccessDenied. The check is deliberately
// coarse: it also rejects legitimate names containing "..", trading those
// for a total traversal guard.
func normalizePath(raw string, required bool) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if required {
			return "", fmt.Errorf("%w: path is required", ErrInvalidArgument)
		}
		return "", nil
	}

	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.Trim(strings.TrimSpace(s), "/")

	if strings.Contains(s, "..") {
		return "", fmt.Errorf("%w: path %q", ErrAccessDenied, raw)
	}

	segments := strings.Split(s, "/")
	cleaned := segments[:0]
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		// A drive-letter or otherwise rooted segment must never reach the
		// join below, where it could re-root the combined path.
		if strings.Contains(seg, ":") {
			return "", fmt.Errorf("%w: path %q", ErrAccessDenied, raw)
		}
		cleaned = append(cleaned, seg)
	}

	return strings.Join(cleaned, "/"), nil
}

// combine joins a resource root with a normalized relative path. The
// relative part is converted to host separators; normalizePath has already
// guaranteed it cannot escape or re-root.
func combine(root, relative string) string {
	if relative == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(relative))
}

// joinRelative appends a child name to a parent relative path.
func joinRelative(parent, child string) string {
	if parent == "" {
		return child
	}
	return strings.TrimSuffix(parent, "/") + "/" + child
}
