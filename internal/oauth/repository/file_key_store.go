package repository

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
)

const (
	keyFileName = "secret_key"
	keyBytes    = 64
)

// FileKeyStore holds the process-wide token signing key in a 0600 file,
// generated lazily on first need and never rotated automatically. It
// implements service.KeySource.
type FileKeyStore struct {
	path string
	mu   sync.Mutex
}

// NewFileKeyStore creates the key store and its state directory.
func NewFileKeyStore(dir string) (*FileKeyStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &FileKeyStore{path: filepath.Join(dir, keyFileName)}, nil
}

// SigningKey returns the signing key, creating it on first use.
func (s *FileKeyStore) SigningKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key == "" {
			return nil, apperrors.New("signing key file is empty")
		}
		return []byte(key), nil
	}
	if !os.IsNotExist(err) {
		return nil, apperrors.Wrap(err, "failed to read signing key")
	}

	randomBytes := make([]byte, keyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate signing key")
	}
	key := base64.RawURLEncoding.EncodeToString(randomBytes)

	if err := os.WriteFile(s.path, []byte(key), filePerm); err != nil {
		return nil, apperrors.Wrap(err, "failed to write signing key")
	}

	return []byte(key), nil
}
