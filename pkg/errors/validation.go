package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDocumentName validates a document name used by the store
// backends. Names become file paths, Redis keys and Mongo document IDs,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (.., /, \)
//   - Maximum length of 128 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "document name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "document name contains invalid sequence: %q", pattern)
		}
	}

	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid document name: %q", name)
	}

	return nil
}

// documentNameRegex matches storage-safe document names.
var documentNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._ -]*$`)

// ValidateNodeID validates a scene node identifier loaded from an
// untrusted document. Generated IDs are UUIDs, but hand-edited documents
// may contain anything.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidDocument, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDocument, "node id contains whitespace or control characters")
		}
	}

	return nil
}

// componentTypeRegex matches valid palette component type names.
var componentTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateComponentType validates a palette component type name.
// Types appear in drag payload references and node type fields.
func ValidateComponentType(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPalette, "component type cannot be empty")
	}

	if !componentTypeRegex.MatchString(name) {
		return New(ErrCodeInvalidPalette, "invalid component type: %q", name)
	}

	return nil
}
