package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	authService "github.com/simplemem/simplemem-mcp/internal/oauth/service"
)

// clientUseCase implements ClientUseCase for managing registered clients.
type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// Generate registers a new client with a fresh id and secret.
// The plain secret is only returned once and must be securely stored by the
// caller; only the hash is persisted.
func (c *clientUseCase) Generate(
	ctx context.Context,
	input *domain.GenerateClientInput,
) (*domain.GenerateClientOutput, error) {
	clientID, err := c.secretService.GenerateClientID()
	if err != nil {
		return nil, err
	}

	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:          clientID,
		Name:        input.Name,
		Description: input.Description,
		SecretHash:  hashedSecret,
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &domain.GenerateClientOutput{
		ClientID:     clientID,
		ClientSecret: plainSecret,
		Name:         input.Name,
		Description:  input.Description,
	}, nil
}

// List returns summaries for all clients, revoked ones included.
// Summaries never carry the secret hash.
func (c *clientUseCase) List(ctx context.Context) ([]domain.ClientSummary, error) {
	clients, err := c.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ClientSummary, 0, len(clients))
	for _, client := range clients {
		summaries = append(summaries, client.Summary())
	}
	return summaries, nil
}

// Get returns the summary for one client.
// Returns domain.ErrClientNotFound if the client doesn't exist.
func (c *clientUseCase) Get(ctx context.Context, clientID string) (*domain.ClientSummary, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	summary := client.Summary()
	return &summary, nil
}

// Revoke marks a client revoked. Revocation is one-way: records are never
// deleted and a second call keeps the original revocation timestamp while
// still reporting true.
func (c *clientUseCase) Revoke(ctx context.Context, clientID string) (bool, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return false, nil
		}
		return false, err
	}

	if client.Revoked {
		return true, nil
	}

	client.Revoke(time.Now().UTC())
	if err := c.clientRepo.Update(ctx, client); err != nil {
		return false, err
	}
	return true, nil
}

// Verify checks client credentials. Unknown clients, revoked clients and
// secret mismatches all report false without distinguishing the cause, to
// prevent client enumeration.
func (c *clientUseCase) Verify(ctx context.Context, clientID, clientSecret string) (bool, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return false, nil
		}
		return false, err
	}

	if client.Revoked {
		return false, nil
	}

	return c.secretService.CompareSecret(clientSecret, client.SecretHash), nil
}

// NewClientUseCase creates a ClientUseCase with the provided dependencies.
func NewClientUseCase(
	clientRepo ClientRepository,
	secretService authService.SecretService,
) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}
