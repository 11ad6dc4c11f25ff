package mcp

import (
	"context"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// mockDocsClient is a mock implementation of driven.DocsClient.
type mockDocsClient struct {
	document  *domain.Document
	documents []domain.Document
	files     []domain.DriveFile
	err       error

	lastTitle    string
	lastContent  string
	lastDocID    string
	lastQuery    string
	lastPageSize int64
}

func (m *mockDocsClient) CreateDocument(_ context.Context, title, content string) (*domain.Document, error) {
	m.lastTitle, m.lastContent = title, content
	return m.document, m.err
}

func (m *mockDocsClient) ReadDocument(_ context.Context, documentID string) (*domain.Document, error) {
	m.lastDocID = documentID
	return m.document, m.err
}

func (m *mockDocsClient) UpdateDocument(_ context.Context, documentID, content string) (*domain.Document, error) {
	m.lastDocID, m.lastContent = documentID, content
	return m.document, m.err
}

func (m *mockDocsClient) AppendToDocument(_ context.Context, documentID, content string) (*domain.Document, error) {
	m.lastDocID, m.lastContent = documentID, content
	return m.document, m.err
}

func (m *mockDocsClient) ListDocuments(_ context.Context, pageSize int64) ([]domain.Document, error) {
	m.lastPageSize = pageSize
	return m.documents, m.err
}

func (m *mockDocsClient) SearchDrive(_ context.Context, query string, pageSize int64) ([]domain.DriveFile, error) {
	m.lastQuery, m.lastPageSize = query, pageSize
	return m.files, m.err
}

// mockClientService is a mock implementation of driving.ClientService.
type mockClientService struct {
	client driven.DocsClient
	found  bool
	err    error

	lastUserID string
	lastEmail  string
}

func (m *mockClientService) GetForUser(_ context.Context, userID string) (driven.DocsClient, bool, error) {
	m.lastUserID = userID
	return m.client, m.found, m.err
}

func (m *mockClientService) GetForEmail(_ context.Context, email string) (driven.DocsClient, bool, error) {
	m.lastEmail = email
	return m.client, m.found, m.err
}

func (m *mockClientService) Invalidate(_ string) {}

// mockCredentialService is a mock implementation of driving.CredentialService.
type mockCredentialService struct {
	users []domain.UserCredential
	err   error
}

func (m *mockCredentialService) BuildAuthorizationURL(_ string) string { return "" }

func (m *mockCredentialService) BeginAuthorization(_ context.Context) (string, string, error) {
	return "", "", m.err
}

func (m *mockCredentialService) CompleteAuthorization(_ context.Context, _, _ string) (*domain.UserCredential, error) {
	return nil, m.err
}

func (m *mockCredentialService) Credential(_ context.Context, _ string) (*domain.UserCredential, bool, error) {
	return nil, false, m.err
}

func (m *mockCredentialService) ResolveEmail(_ context.Context, _ string) (string, bool, error) {
	return "", false, m.err
}

func (m *mockCredentialService) HasUser(_ context.Context, _ string) (bool, error) {
	return false, m.err
}

func (m *mockCredentialService) HasUserByEmail(_ context.Context, _ string) (bool, error) {
	return false, m.err
}

func (m *mockCredentialService) RemoveUser(_ context.Context, _ string) error { return m.err }

func (m *mockCredentialService) ListUsers(_ context.Context) ([]domain.UserCredential, error) {
	return m.users, m.err
}

func (m *mockCredentialService) AccessToken(_ context.Context, _ string) (string, error) {
	return "", m.err
}
