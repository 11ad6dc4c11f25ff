package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foliolabs/folio/internal/core/ports/driven"
	"github.com/foliolabs/folio/internal/core/ports/driving"
)

// Ensure ClientService implements the interfaces.
var (
	_ driving.ClientService = (*ClientService)(nil)
	_ ClientInvalidator     = (*ClientService)(nil)
)

// ClientService hands out per-user document clients, caching them so
// repeated tasks for the same user reuse one client. An unknown user is
// reported as absent, not as an error; callers decide how to surface it.
type ClientService struct {
	creds   driving.CredentialService
	factory driven.DocsClientFactory
	logger  *slog.Logger

	mu      sync.RWMutex
	clients map[string]driven.DocsClient
}

// NewClientService creates a client cache backed by the given factory.
func NewClientService(creds driving.CredentialService, factory driven.DocsClientFactory, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{
		creds:   creds,
		factory: factory,
		logger:  logger,
		clients: make(map[string]driven.DocsClient),
	}
}

// GetForUser returns the cached client for the user, building one on first
// use. Returns ok=false without error when the user has no credential.
func (s *ClientService) GetForUser(ctx context.Context, userID string) (driven.DocsClient, bool, error) {
	s.mu.RLock()
	client, ok := s.clients[userID]
	s.mu.RUnlock()
	if ok {
		return client, true, nil
	}

	known, err := s.creds.HasUser(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("checking user: %w", err)
	}
	if !known {
		return nil, false, nil
	}

	client, err = s.factory.NewClient(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("building client: %w", err)
	}

	s.mu.Lock()
	// Another goroutine may have built one while we were outside the lock;
	// keep the first so every caller shares a single client.
	if existing, ok := s.clients[userID]; ok {
		client = existing
	} else {
		s.clients[userID] = client
	}
	s.mu.Unlock()

	s.logger.Debug("client ready", slog.String("user_id", userID))
	return client, true, nil
}

// GetForEmail resolves the email through the index, then behaves like
// GetForUser. An unindexed email is absent, not an error.
func (s *ClientService) GetForEmail(ctx context.Context, email string) (driven.DocsClient, bool, error) {
	userID, ok, err := s.creds.ResolveEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return s.GetForUser(ctx, userID)
}

// Invalidate drops the cached client for a user. Called when the credential
// is replaced or removed so stale clients never outlive their tokens.
func (s *ClientService) Invalidate(userID string) {
	s.mu.Lock()
	delete(s.clients, userID)
	s.mu.Unlock()
}
