package errors

import (
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}

// ValidateFilename validates a file name derived from remote data.
// Archive names come from the last segment of a link on a web page, so they
// must be a plain basename before being joined onto the downloads directory.
//
// Validation rules:
//   - Name cannot be empty, "." or ".."
//   - Maximum length of 255 characters
//   - No null bytes or control characters
//   - No path separators
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "invalid file name %q", name)
	}

	const maxNameLength = 255
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPath, "file name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators: %q", name)
	}

	return nil
}
