package driven

import (
	"context"

	"github.com/foliolabs/folio/internal/core/domain"
)

// DocsClient is a ready-to-call document-service client bound to one user's
// credential. The core routes capability handlers to these operations and
// does not inspect their internals.
type DocsClient interface {
	// CreateDocument creates a new document, optionally seeding its body.
	CreateDocument(ctx context.Context, title, content string) (*domain.Document, error)

	// ReadDocument returns a document with its plain-text body.
	ReadDocument(ctx context.Context, documentID string) (*domain.Document, error)

	// UpdateDocument replaces the document body.
	UpdateDocument(ctx context.Context, documentID, content string) (*domain.Document, error)

	// AppendToDocument appends text at the end of the document body.
	AppendToDocument(ctx context.Context, documentID, content string) (*domain.Document, error)

	// ListDocuments returns the user's documents, most recently modified
	// first. pageSize caps the result; non-positive values use a default.
	ListDocuments(ctx context.Context, pageSize int64) ([]domain.Document, error)

	// SearchDrive runs a full-text search across the user's files.
	SearchDrive(ctx context.Context, query string, pageSize int64) ([]domain.DriveFile, error)
}

// DocsClientFactory constructs a DocsClient for a user. Token acquisition
// and refresh are wired through the credential service, so a constructed
// client stays usable across token rotations.
type DocsClientFactory interface {
	NewClient(ctx context.Context, userID string) (DocsClient, error)
}
