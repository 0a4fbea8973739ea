package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds user-supplied identifiers from scripts and the editor.
const maxIDLength = 256

// ValidateID validates a user-supplied identifier (node, edge, area or
// session id) before it reaches the engine. code is returned on failure so
// each caller reports its own invalid-id kind.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(code Code, kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return New(code, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(code, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(code, "%s id contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateScriptPath validates a command script path given on the command
// line. It only rejects values that can never name a readable file.
func ValidateScriptPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidScript, "script path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidScript, "script path contains invalid characters")
	}
	return nil
}
