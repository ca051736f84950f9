package repository

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

const clientsFileName = "clients.json"

// FileClientRepository persists registered clients in a single JSON file
// keyed by client id. Mutations are serialized behind a mutex so concurrent
// read-modify-write cycles within this process cannot lose updates.
type FileClientRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileClientRepository creates the repository and its state directory.
func NewFileClientRepository(dir string) (*FileClientRepository, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &FileClientRepository{path: filepath.Join(dir, clientsFileName)}, nil
}

// Get returns the client with the given id or ErrClientNotFound.
func (r *FileClientRepository) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	client, ok := clients[clientID]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	client.ID = clientID
	return client, nil
}

// List returns all clients ordered by creation time then id.
func (r *FileClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Client, 0, len(clients))
	for id, client := range clients {
		client.ID = id
		out = append(out, client)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Create persists a new client record. Client ids are generated with enough
// entropy that collisions indicate a bug, so an existing id is a conflict.
func (r *FileClientRepository) Create(ctx context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return err
	}

	if _, exists := clients[client.ID]; exists {
		return apperrors.Wrapf(apperrors.ErrInternal, "client id collision: %s", client.ID)
	}

	clients[client.ID] = client
	return r.save(clients)
}

// Update rewrites an existing client record.
func (r *FileClientRepository) Update(ctx context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.load()
	if err != nil {
		return err
	}

	if _, exists := clients[client.ID]; !exists {
		return domain.ErrClientNotFound
	}

	clients[client.ID] = client
	return r.save(clients)
}

func (r *FileClientRepository) load() (map[string]*domain.Client, error) {
	clients := make(map[string]*domain.Client)
	if _, err := readJSONFile(r.path, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *FileClientRepository) save(clients map[string]*domain.Client) error {
	return writeJSONFile(r.path, clients)
}
