package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

const codesFileName = "authorization_codes.json"

// FileCodeRepository persists authorization codes in a single JSON file keyed
// by the code itself. Used codes are kept for replay auditing.
type FileCodeRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileCodeRepository creates the repository and its state directory.
func NewFileCodeRepository(dir string) (*FileCodeRepository, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &FileCodeRepository{path: filepath.Join(dir, codesFileName)}, nil
}

// Get returns the record for a code or ErrCodeNotFound.
func (r *FileCodeRepository) Get(ctx context.Context, code string) (*domain.AuthorizationCode, error) {
	codes, err := r.load()
	if err != nil {
		return nil, err
	}

	record, ok := codes[code]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	record.Code = code
	return record, nil
}

// Create persists a newly issued code.
func (r *FileCodeRepository) Create(ctx context.Context, record *domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.load()
	if err != nil {
		return err
	}

	codes[record.Code] = record
	return r.save(codes)
}

// Update rewrites an existing code record, typically to mark it used.
func (r *FileCodeRepository) Update(ctx context.Context, record *domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes, err := r.load()
	if err != nil {
		return err
	}

	if _, exists := codes[record.Code]; !exists {
		return domain.ErrCodeNotFound
	}

	codes[record.Code] = record
	return r.save(codes)
}

func (r *FileCodeRepository) load() (map[string]*domain.AuthorizationCode, error) {
	codes := make(map[string]*domain.AuthorizationCode)
	if _, err := readJSONFile(r.path, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *FileCodeRepository) save(codes map[string]*domain.AuthorizationCode) error {
	return writeJSONFile(r.path, codes)
}
