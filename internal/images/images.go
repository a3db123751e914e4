// Package images provides the image-upload stub. No bytes are stored;
// uploads resolve to deterministic placeholder URLs until a real
// storage backend exists.
package images

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
)

const defaultBaseURL = "https://placehold.co/600x400"

// ErrUnsupportedType is returned for non-image uploads.
var ErrUnsupportedType = errors.New("unsupported image type")

// Store hands out placeholder URLs for uploaded images.
type Store struct {
	baseURL string
}

// NewStore constructs a Store. An empty baseURL selects the default
// placeholder host.
func NewStore(baseURL string) *Store {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Store{baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload validates the declared content type and returns a placeholder
// URL derived from a random key. The upload body is discarded.
func (s *Store) Upload(filename, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedType
	}

	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s?key=%s%s", s.baseURL, hex.EncodeToString(buf), ext), nil
}
