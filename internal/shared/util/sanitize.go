package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameLen bounds sanitized names, extension included.
const MaxFileNameLen = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and
// rejects traversal patterns. Long names are cut before the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if runes := []rune(s); len(runes) > MaxFileNameLen {
		ext := []rune(path.Ext(s))
		if len(ext) >= MaxFileNameLen {
			ext = nil
		}
		s = string(runes[:MaxFileNameLen-len(ext)]) + string(ext)
	}
	return s, nil
}
