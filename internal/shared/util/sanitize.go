package util

import (
	"errors"
	"strings"
)

var errBadFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators out of a client-supplied file
// name and rejects traversal attempts outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errBadFileName
	}
	cleaned := strings.TrimSpace(name)
	cleaned = strings.NewReplacer("/", "_", `\`, "_").Replace(cleaned)
	if cleaned == "" {
		return "", errBadFileName
	}
	return cleaned, nil
}
