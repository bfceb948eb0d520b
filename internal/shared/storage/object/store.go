package object

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"nutricoach-backend/internal/shared/util"
)

const sniffLen = 512

// ErrInvalidKey is returned for keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Store archives raw AI responses and imported coaching files.
type Store interface {
	// Save writes r under the user's namespace with a random prefix and
	// returns the generated key, the byte count and the sniffed MIME type.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey writes r at a caller-chosen key.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// RawResponseKey is the archive key for the upstream payload of a check-in.
func RawResponseKey(userID, checkinID string) string {
	return path.Join("raw", util.HashUserKey(userID), checkinID+".json")
}

// CleanKey rejects absolute keys and traversal segments.
func CleanKey(storageKey string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(storageKey, "\\", "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// ImportKey builds the key for an uploaded coaching file:
// imports/<user hash>/<uuid>_<sanitized name>.
func ImportKey(userID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join("imports", util.HashUserKey(userID), uuid.NewString()+"_"+name), nil
}

// Sniff detects the MIME type of r from its first bytes and returns a reader
// that still yields the whole stream.
func Sniff(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head), br, nil
}
