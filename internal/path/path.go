// Package path provides object path normalisation and validation utilities.
//
// All object paths in relate pass through this package before storage or
// retrieval. Validation ensures paths are safe for database storage and
// stable as reference endpoints.
//
// Security: Path traversal attacks are blocked by rejecting any path containing "..".
//
// Normalisation rules:
//   - Paths use forward slashes (Windows-compatible)
//   - No leading or trailing slashes
//   - No "." or ".." components
//   - Empty paths are rejected
package path

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalid indicates the provided object path is invalid.
var ErrInvalid = errors.New("invalid object path")

// ErrTooLong indicates the object path exceeds the configured maximum length.
var ErrTooLong = errors.New("object path too long")

// Normalise cleans and validates an object path.
// It ensures paths use forward slashes, have no leading/trailing slashes,
// and contain no directory traversal sequences.
func Normalise(p string) (string, error) {
	if p == "" {
		return "", ErrInvalid
	}

	// Backslashes are converted explicitly because filepath.ToSlash only
	// converts them on Windows, and Windows-style paths can appear in shared
	// databases regardless of host platform.
	p = strings.ReplaceAll(p, "\\", "/")
	p = filepath.Clean(p)
	p = filepath.ToSlash(p)

	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")

	if p == "" || p == "." || p == ".." {
		return "", ErrInvalid
	}
	if strings.Contains(p, "..") {
		return "", ErrInvalid
	}

	return p, nil
}

// Direct reports whether path is a direct child of prefix.
// Both paths should use forward slashes. The prefix is normalised
// (backslashes converted, trailing slash removed) to handle raw user input.
//
// Examples (prefix="site"):
//   - "site/front-page" -> true (direct child)
//   - "site/news/launch" -> false (nested)
//   - "site" -> true (exact match)
//
// Examples (prefix=""):
//   - "front-page" -> true (top level)
//   - "site/front-page" -> false (nested)
func Direct(path, prefix string) bool {
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = strings.TrimSuffix(prefix, "/")

	if path == prefix {
		return true
	}

	var remainder string
	if prefix == "" {
		remainder = path
	} else if strings.HasPrefix(path, prefix+"/") {
		remainder = path[len(prefix)+1:]
	} else {
		return false
	}

	return !strings.Contains(remainder, "/")
}
