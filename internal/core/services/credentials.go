package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
	"github.com/foliolabs/folio/internal/core/ports/driving"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// Store key prefixes. The email index maps a lowercased address to the
// owning user id; primary and index entries are written and removed
// together so the index never outlives its credential.
const (
	tokenKeyPrefix = "token:"
	emailKeyPrefix = "email:"
	stateKeyPrefix = "oauthstate:"
)

// refreshBuffer is how long before expiry a token is refreshed, so API
// calls never start with a token about to lapse mid-flight.
const refreshBuffer = 5 * time.Minute

// pendingAuthorizationTTL bounds how long a started flow stays completable.
const pendingAuthorizationTTL = 10 * time.Minute

// CredentialConfig holds the OAuth application settings needed to build
// authorization URLs. Token-endpoint settings live with the exchanger.
type CredentialConfig struct {
	// AuthURL is the provider's authorization endpoint.
	AuthURL string
	// ClientID is the OAuth application client id.
	ClientID string
	// RedirectURI is where the provider sends the user back with a code.
	RedirectURI string
	// Scopes are the permissions requested on every authorization.
	Scopes []string
}

// ClientInvalidator evicts cached service clients when a credential is
// replaced or removed.
type ClientInvalidator interface {
	Invalidate(userID string)
}

// CredentialService manages per-user OAuth credential lifecycles: the
// authorization-code exchange, persistence under the primary and email
// index keys, silent refresh with write-through persistence, and removal.
type CredentialService struct {
	store     driven.KVStore
	exchanger driven.TokenExchanger
	identity  driven.IdentityClient
	metrics   driven.MetricsCollector
	cfg       CredentialConfig
	logger    *slog.Logger

	// Per-user mutexes serialize credential read-modify-write cycles so a
	// concurrent refresh never loses a write and a refresh never
	// resurrects a credential that RemoveUser just deleted.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	invalidator ClientInvalidator
}

// NewCredentialService creates a credential lifecycle service.
// metrics may be nil; logger falls back to the default logger.
func NewCredentialService(
	store driven.KVStore,
	exchanger driven.TokenExchanger,
	identity driven.IdentityClient,
	cfg CredentialConfig,
	metrics driven.MetricsCollector,
	logger *slog.Logger,
) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialService{
		store:     store,
		exchanger: exchanger,
		identity:  identity,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// SetInvalidator wires the client cache eviction hook. Called once during
// startup after the client service is constructed.
func (s *CredentialService) SetInvalidator(inv ClientInvalidator) {
	s.invalidator = inv
}

// BuildAuthorizationURL returns the consent URL for the given state.
// Offline access and forced consent are always requested so the exchange
// yields a refresh token even for previously-authorized users.
func (s *CredentialService) BuildAuthorizationURL(state string) string {
	return s.buildAuthorizationURL(state, "")
}

func (s *CredentialService) buildAuthorizationURL(state, codeChallenge string) string {
	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", s.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(s.cfg.Scopes, " "))
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	if state != "" {
		params.Set("state", state)
	}
	if codeChallenge != "" {
		params.Set("code_challenge", codeChallenge)
		params.Set("code_challenge_method", "S256")
	}
	return s.cfg.AuthURL + "?" + params.Encode()
}

// BeginAuthorization starts a flow: it persists a pending-authorization
// record (state plus PKCE verifier) with a TTL and returns the consent URL.
func (s *CredentialService) BeginAuthorization(ctx context.Context) (string, string, error) {
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("generating state: %w", err)
	}
	verifier, err := generateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("generating code verifier: %w", err)
	}

	pending := domain.PendingAuthorization{
		State:        state,
		CodeVerifier: verifier,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return "", "", fmt.Errorf("marshalling pending authorization: %w", err)
	}
	if err := s.store.Set(ctx, stateKey(state), data, pendingAuthorizationTTL); err != nil {
		return "", "", fmt.Errorf("saving pending authorization: %w", err)
	}

	return s.buildAuthorizationURL(state, generateCodeChallenge(verifier)), state, nil
}

// CompleteAuthorization exchanges the code, resolves the account identity,
// and persists the credential under both keys. The pending-authorization
// record is consumed regardless of the outcome.
//
// Fails with domain.ErrMissingRefreshToken, persisting nothing, when the
// exchange response carries no refresh token. That happens when consent was
// granted without the forced re-consent prompt; the user must revoke the
// app's access and authorize again.
func (s *CredentialService) CompleteAuthorization(ctx context.Context, code, state string) (*domain.UserCredential, error) {
	if code == "" {
		return nil, domain.ErrMissingCode
	}

	var verifier string
	if state != "" {
		data, err := s.store.Get(ctx, stateKey(state))
		if err != nil {
			return nil, domain.ErrInvalidState
		}
		var pending domain.PendingAuthorization
		if err := json.Unmarshal(data, &pending); err != nil {
			return nil, domain.ErrInvalidState
		}
		// One-time use: a replayed callback must not complete twice.
		if err := s.store.Delete(ctx, stateKey(state)); err != nil {
			return nil, fmt.Errorf("consuming pending authorization: %w", err)
		}
		verifier = pending.CodeVerifier
	}

	tokens, err := s.exchanger.Exchange(ctx, code, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenExchangeFailed, err)
	}
	if tokens.RefreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	info, err := s.identity.FetchUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("%w: user info carries no stable id", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	cred := &domain.UserCredential{
		UserID:       info.ID,
		Email:        info.Email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    unixMilli(tokens.Expiry),
		Scopes:       tokens.Scopes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	lock := s.userLock(cred.UserID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.persist(ctx, cred); err != nil {
		return nil, err
	}
	s.evictClient(cred.UserID)

	s.logger.Info("user authorized",
		slog.String("user_id", cred.UserID),
		slog.String("email", cred.Email))

	return cred, nil
}

// persist writes the primary record and the email index together. A failed
// index write rolls the primary back so no orphaned entry survives.
func (s *CredentialService) persist(ctx context.Context, cred *domain.UserCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshalling credential: %w", err)
	}
	if err := s.store.Set(ctx, tokenKey(cred.UserID), data, 0); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	if cred.Email != "" {
		if err := s.store.Set(ctx, emailKey(cred.Email), []byte(cred.UserID), 0); err != nil {
			_ = s.store.Delete(ctx, tokenKey(cred.UserID))
			return fmt.Errorf("saving email index: %w", err)
		}
	}
	return nil
}

// Credential loads the stored credential for a user id.
func (s *CredentialService) Credential(ctx context.Context, userID string) (*domain.UserCredential, bool, error) {
	data, err := s.store.Get(ctx, tokenKey(userID))
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading credential: %w", err)
	}
	var cred domain.UserCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, false, fmt.Errorf("unmarshalling credential: %w", err)
	}
	return &cred, true, nil
}

// ResolveEmail maps an email to a user id via the index.
func (s *CredentialService) ResolveEmail(ctx context.Context, email string) (string, bool, error) {
	data, err := s.store.Get(ctx, emailKey(email))
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolving email: %w", err)
	}
	return string(data), true, nil
}

// HasUser reports whether a credential exists for the user id.
func (s *CredentialService) HasUser(ctx context.Context, userID string) (bool, error) {
	return s.store.Exists(ctx, tokenKey(userID))
}

// HasUserByEmail reports whether the email index resolves to a user.
func (s *CredentialService) HasUserByEmail(ctx context.Context, email string) (bool, error) {
	return s.store.Exists(ctx, emailKey(email))
}

// RemoveUser deletes the credential and its email index entry, the email
// taken from the stored record rather than re-derived. Idempotent: removing
// an unknown user succeeds. The cached client is always evicted.
func (s *CredentialService) RemoveUser(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cred, ok, err := s.Credential(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, tokenKey(userID)); err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	if ok && cred.Email != "" {
		if err := s.store.Delete(ctx, emailKey(cred.Email)); err != nil {
			return fmt.Errorf("deleting email index: %w", err)
		}
	}
	s.evictClient(userID)

	if ok {
		s.logger.Info("user removed", slog.String("user_id", userID))
	}
	return nil
}

// ListUsers returns all stored credentials. Zero users is not an error.
func (s *CredentialService) ListUsers(ctx context.Context) ([]domain.UserCredential, error) {
	keys, err := s.store.Keys(ctx, tokenKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}

	users := make([]domain.UserCredential, 0, len(keys))
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			if isNotFound(err) {
				continue // removed between scan and read
			}
			return nil, fmt.Errorf("loading credential %s: %w", key, err)
		}
		var cred domain.UserCredential
		if err := json.Unmarshal(data, &cred); err != nil {
			return nil, fmt.Errorf("unmarshalling credential %s: %w", key, err)
		}
		users = append(users, cred)
	}
	return users, nil
}

// AccessToken returns a live access token for the user, refreshing first
// when the stored one is expired or inside the refresh buffer. The refresh
// is write-through: the new token is persisted before it is returned, under
// the per-user lock so concurrent refreshes never lose a write.
func (s *CredentialService) AccessToken(ctx context.Context, userID string) (string, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cred, ok, err := s.Credential(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrUserNotAuthorized
	}

	if !cred.IsExpired(refreshBuffer) {
		return cred.AccessToken, nil
	}

	if !cred.HasRefreshToken() {
		return "", fmt.Errorf("%w: credential has no refresh token", domain.ErrTokenRefreshFailed)
	}

	tokens, err := s.exchanger.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		s.recordRefresh("error")
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	// The refresh token is issued once per authorization and stays as
	// stored; only the access token and expiry move.
	cred.AccessToken = tokens.AccessToken
	cred.ExpiresAt = unixMilli(tokens.Expiry)
	cred.UpdatedAt = time.Now().UTC()

	// The user may have been removed while the refresh round trip was in
	// flight. Re-check before persisting so the write cannot resurrect a
	// deleted credential.
	exists, err := s.store.Exists(ctx, tokenKey(userID))
	if err != nil {
		return "", fmt.Errorf("checking credential: %w", err)
	}
	if !exists {
		return "", domain.ErrUserNotAuthorized
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return "", fmt.Errorf("marshalling credential: %w", err)
	}
	if err := s.store.Set(ctx, tokenKey(userID), data, 0); err != nil {
		return "", fmt.Errorf("saving refreshed credential: %w", err)
	}

	s.recordRefresh("ok")
	s.logger.Debug("access token refreshed", slog.String("user_id", userID))

	return cred.AccessToken, nil
}

func (s *CredentialService) recordRefresh(outcome string) {
	if s.metrics != nil {
		s.metrics.TokenRefreshed(outcome)
	}
}

func (s *CredentialService) evictClient(userID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}

// userLock returns the mutex guarding one user's credential writes,
// creating it on first use.
func (s *CredentialService) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func tokenKey(userID string) string {
	return tokenKeyPrefix + userID
}

func emailKey(email string) string {
	return emailKeyPrefix + strings.ToLower(email)
}

func stateKey(state string) string {
	return stateKeyPrefix + state
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
