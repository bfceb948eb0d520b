package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	userKeyBytes    = 16
	maxFileNameLen  = 120
	fileNameReplace = '_'
)

// ErrInvalidFileName is returned for names that are empty after cleaning or
// that try to escape the storage prefix.
var ErrInvalidFileName = errors.New("invalid file name")

// HashUserKey maps a caller identity ("user:<id>" or "guest:<id>") to a
// fixed-length path segment so raw ids never reach object keys.
func HashUserKey(identity string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(identity)))
	return hex.EncodeToString(sum[:userKeyBytes])
}

// SanitizeFileName turns an uploaded file name into a single safe key
// segment. Separators and control characters become underscores and the
// result is capped at maxFileNameLen runes, keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\':
			return fileNameReplace
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	s = strings.TrimLeft(s, ".")
	if s == "" || strings.Trim(s, string(fileNameReplace)) == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) > maxFileNameLen {
		s = truncateKeepExt(s)
	}
	return s, nil
}

func truncateKeepExt(s string) string {
	ext := ""
	if idx := strings.LastIndex(s, "."); idx > 0 && len(s)-idx <= 10 {
		ext = s[idx:]
		s = s[:idx]
	}
	runes := []rune(s)
	keep := maxFileNameLen - utf8.RuneCountInString(ext)
	if keep < len(runes) {
		runes = runes[:keep]
	}
	return string(runes) + ext
}
