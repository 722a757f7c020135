package util

import (
	"errors"
	"strings"
)

var errInvalidName = errors.New("invalid name")

// SanitizeFileName makes an identifier safe for use in storage keys: path
// separators become underscores and traversal patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidName
	}
	s := strings.TrimSpace(name)
	for _, sep := range []string{"/", "\\"} {
		s = strings.ReplaceAll(s, sep, "_")
	}
	if s == "" {
		return "", errInvalidName
	}
	return s, nil
}
