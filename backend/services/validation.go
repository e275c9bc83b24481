// ABOUTME: Input validation for names that end up in logs, cache keys and message keys
// ABOUTME: Keeps user-supplied panel and project names printable and bounded

package services

import (
	"fmt"
	"regexp"
	"strings"
)

// namePattern matches panel and project names: printable, starting with a letter or digit.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._/#()-]*$`)

const maxNameLength = 128

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateName checks a panel or project name. kind names the field in the error.
func ValidateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%s name exceeds %d characters", kind, maxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid %s name format: %s", kind, sanitizeForLog(name))
	}
	return nil
}
