package game

import (
	"errors"
	"fmt"
	"strings"
)

const MaxNameLength = 20

// ValidateName normalizes whitespace and rejects empty, overlong or
// non-printable-ASCII display names.
func ValidateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("name is required")
	}
	if len(trimmed) > MaxNameLength {
		return "", fmt.Errorf("name must be %d characters or fewer", MaxNameLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("name contains unsupported characters")
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', '!', '?', '&', '(', ')':
			continue
		default:
			return false
		}
	}
	return true
}
