package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates one segment of a Maven coordinate.
// It rejects values that would escape the repository layout or the output
// directory once the coordinate is turned into a path.
//
// The validation rules are intentionally conservative:
//   - No empty segments
//   - No control characters or whitespace
//   - No path traversal sequences (..), slashes or backslashes
//   - Maximum length of 256 characters
func ValidateCoordinatePart(field, value string) error {
	if value == "" {
		return New(ErrCodeMalformedCoordinate, "%s cannot be empty", field)
	}

	if len(value) > 256 {
		return New(ErrCodeMalformedCoordinate, "%s too long (max 256 characters)", field)
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters", field)
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeMalformedCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}

	return nil
}

// ValidateRepositoryURL validates a repository base URL.
// It ensures the URL parses, uses http or https, and names a host.
func ValidateRepositoryURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "repository URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "repository URL must use http or https scheme: %q", rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid repository URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "repository URL has no host: %q", rawURL)
	}
	return nil
}

// ValidatePath validates an output path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
