package services

import (
	"context"
	"time"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// mockExchanger is a mock implementation of driven.TokenExchanger.
type mockExchanger struct {
	exchangeTokens *domain.TokenSet
	exchangeErr    error
	refreshTokens  *domain.TokenSet
	refreshErr     error

	lastCode     string
	lastVerifier string
	lastRefresh  string

	// onRefresh runs before Refresh returns, letting tests race a
	// removal against an in-flight refresh.
	onRefresh func()
}

func (m *mockExchanger) Exchange(_ context.Context, code, codeVerifier string) (*domain.TokenSet, error) {
	m.lastCode, m.lastVerifier = code, codeVerifier
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.exchangeTokens, nil
}

func (m *mockExchanger) Refresh(_ context.Context, refreshToken string) (*domain.TokenSet, error) {
	m.lastRefresh = refreshToken
	if m.onRefresh != nil {
		m.onRefresh()
	}
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshTokens, nil
}

// mockIdentity is a mock implementation of driven.IdentityClient.
type mockIdentity struct {
	info *domain.UserInfo
	err  error
}

func (m *mockIdentity) FetchUserInfo(_ context.Context, _ string) (*domain.UserInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

// captureInvalidator records client cache evictions.
type captureInvalidator struct {
	evicted []string
}

func (c *captureInvalidator) Invalidate(userID string) {
	c.evicted = append(c.evicted, userID)
}

// mockDocsClient is a mock implementation of driven.DocsClient.
type mockDocsClient struct {
	document  *domain.Document
	documents []domain.Document
	files     []domain.DriveFile
	err       error

	// delay makes every call sleep first, for timeout tests.
	delay time.Duration

	lastTitle    string
	lastContent  string
	lastDocID    string
	lastQuery    string
	lastPageSize int64
}

// wait ignores the context so a delayed call reliably outlives the
// dispatcher's timeout budget.
func (m *mockDocsClient) wait(_ context.Context) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return nil
}

func (m *mockDocsClient) CreateDocument(ctx context.Context, title, content string) (*domain.Document, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastTitle, m.lastContent = title, content
	return m.document, m.err
}

func (m *mockDocsClient) ReadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastDocID = documentID
	return m.document, m.err
}

func (m *mockDocsClient) UpdateDocument(ctx context.Context, documentID, content string) (*domain.Document, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastDocID, m.lastContent = documentID, content
	return m.document, m.err
}

func (m *mockDocsClient) AppendToDocument(ctx context.Context, documentID, content string) (*domain.Document, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastDocID, m.lastContent = documentID, content
	return m.document, m.err
}

func (m *mockDocsClient) ListDocuments(ctx context.Context, pageSize int64) ([]domain.Document, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastPageSize = pageSize
	return m.documents, m.err
}

func (m *mockDocsClient) SearchDrive(ctx context.Context, query string, pageSize int64) ([]domain.DriveFile, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.lastQuery, m.lastPageSize = query, pageSize
	return m.files, m.err
}

// mockClientFactory is a mock implementation of driven.DocsClientFactory.
type mockClientFactory struct {
	client driven.DocsClient
	err    error
	builds int
}

func (m *mockClientFactory) NewClient(_ context.Context, _ string) (driven.DocsClient, error) {
	m.builds++
	if m.err != nil {
		return nil, m.err
	}
	return m.client, nil
}

// mockClients is a mock implementation of driving.ClientService.
type mockClients struct {
	client driven.DocsClient
	found  bool
	err    error

	lastUserID string
	lastEmail  string
}

func (m *mockClients) GetForUser(_ context.Context, userID string) (driven.DocsClient, bool, error) {
	m.lastUserID = userID
	return m.client, m.found, m.err
}

func (m *mockClients) GetForEmail(_ context.Context, email string) (driven.DocsClient, bool, error) {
	m.lastEmail = email
	return m.client, m.found, m.err
}

func (m *mockClients) Invalidate(_ string) {}

// mockLLM is a mock implementation of driven.LLMService.
type mockLLM struct {
	reply string
	err   error

	lastMessages []driven.ChatMessage
	lastOpts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string          { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }
