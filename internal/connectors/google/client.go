package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// Ensure the adapter satisfies the ports.
var (
	_ driven.DocsClient        = (*Client)(nil)
	_ driven.DocsClientFactory = (*ClientFactory)(nil)
)

// docMIMEType is the Drive MIME type of native Google Docs.
const docMIMEType = "application/vnd.google-apps.document"

// defaultPageSize caps list and search results when the caller passes a
// non-positive page size.
const defaultPageSize = 20

// driveListFields limits Drive responses to the fields the client maps.
const driveListFields = "files(id, name, mimeType, modifiedTime, webViewLink)"

// Client is a per-user Google Docs and Drive client. All calls run through
// per-service rate limiters; tokens are pulled from the credential service
// on every request, so refresh happens transparently.
type Client struct {
	docs  *docs.Service
	drive *drive.Service

	docsLimit  *RateLimiter
	driveLimit *RateLimiter
}

// ClientFactory builds per-user clients over a token provider.
type ClientFactory struct {
	provider TokenProvider
}

// NewClientFactory creates a factory wiring clients to the given token
// provider.
func NewClientFactory(provider TokenProvider) *ClientFactory {
	return &ClientFactory{provider: provider}
}

// NewClient constructs a client for the user. The token source is bound to
// the background context because clients outlive the request that first
// built them.
func (f *ClientFactory) NewClient(ctx context.Context, userID string) (driven.DocsClient, error) {
	ts := NewTokenSource(context.Background(), f.provider, userID)

	docsSvc, err := docs.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Client{
		docs:       docsSvc,
		drive:      driveSvc,
		docsLimit:  NewRateLimiter(ServiceDocs),
		driveLimit: NewRateLimiter(ServiceDrive),
	}, nil
}

// CreateDocument creates a new document, optionally seeding its body.
func (c *Client) CreateDocument(ctx context.Context, title, content string) (*domain.Document, error) {
	if err := c.docsLimit.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := c.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", c.wrapDocsError(err))
	}

	if content != "" {
		if err := c.batchUpdate(ctx, doc.DocumentId, []*docs.Request{
			insertText(1, content),
		}); err != nil {
			return nil, fmt.Errorf("seeding document body: %w", err)
		}
	}

	return &domain.Document{
		ID:    doc.DocumentId,
		Title: doc.Title,
		URL:   DocumentURL(doc.DocumentId),
	}, nil
}

// ReadDocument returns a document with its plain-text body.
func (c *Client) ReadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	if err := c.docsLimit.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", c.wrapDocsError(err))
	}

	return &domain.Document{
		ID:      doc.DocumentId,
		Title:   doc.Title,
		Content: extractText(doc.Body),
		URL:     DocumentURL(doc.DocumentId),
	}, nil
}

// UpdateDocument replaces the document body with the given content.
func (c *Client) UpdateDocument(ctx context.Context, documentID, content string) (*domain.Document, error) {
	if err := c.docsLimit.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", c.wrapDocsError(err))
	}

	var requests []*docs.Request
	// The body always ends with a newline that cannot be deleted, so the
	// deletable range is [1, end-1).
	if end := bodyEndIndex(doc.Body); end > 2 {
		requests = append(requests, &docs.Request{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{StartIndex: 1, EndIndex: end - 1},
			},
		})
	}
	if content != "" {
		requests = append(requests, insertText(1, content))
	}

	if len(requests) > 0 {
		if err := c.batchUpdate(ctx, documentID, requests); err != nil {
			return nil, fmt.Errorf("updating document: %w", err)
		}
	}

	return &domain.Document{
		ID:    doc.DocumentId,
		Title: doc.Title,
		URL:   DocumentURL(doc.DocumentId),
	}, nil
}

// AppendToDocument appends text at the end of the document body.
func (c *Client) AppendToDocument(ctx context.Context, documentID, content string) (*domain.Document, error) {
	if err := c.docsLimit.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := c.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", c.wrapDocsError(err))
	}

	// Insert just before the trailing newline, which is the last valid
	// insertion point.
	index := bodyEndIndex(doc.Body) - 1
	if index < 1 {
		index = 1
	}

	if err := c.batchUpdate(ctx, documentID, []*docs.Request{
		insertText(index, content),
	}); err != nil {
		return nil, fmt.Errorf("appending to document: %w", err)
	}

	return &domain.Document{
		ID:    doc.DocumentId,
		Title: doc.Title,
		URL:   DocumentURL(doc.DocumentId),
	}, nil
}

// ListDocuments returns the user's documents, most recently modified first.
func (c *Client) ListDocuments(ctx context.Context, pageSize int64) ([]domain.Document, error) {
	if err := c.driveLimit.Wait(ctx); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	list, err := c.drive.Files.List().
		Q(fmt.Sprintf("mimeType = '%s' and trashed = false", docMIMEType)).
		OrderBy("modifiedTime desc").
		PageSize(pageSize).
		Fields(driveListFields).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", c.wrapDriveError(err))
	}

	documents := make([]domain.Document, 0, len(list.Files))
	for _, f := range list.Files {
		documents = append(documents, domain.Document{
			ID:           f.Id,
			Title:        f.Name,
			URL:          fileURL(f),
			ModifiedTime: parseTime(f.ModifiedTime),
		})
	}
	return documents, nil
}

// SearchDrive runs a full-text search across the user's files.
func (c *Client) SearchDrive(ctx context.Context, query string, pageSize int64) ([]domain.DriveFile, error) {
	if err := c.driveLimit.Wait(ctx); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	list, err := c.drive.Files.List().
		Q(fmt.Sprintf("fullText contains '%s' and trashed = false", escapeQuery(query))).
		PageSize(pageSize).
		Fields(driveListFields).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("searching drive: %w", c.wrapDriveError(err))
	}

	files := make([]domain.DriveFile, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, domain.DriveFile{
			ID:           f.Id,
			Name:         f.Name,
			MIMEType:     f.MimeType,
			URL:          fileURL(f),
			ModifiedTime: parseTime(f.ModifiedTime),
		})
	}
	return files, nil
}

// batchUpdate applies the requests to the document in one call.
func (c *Client) batchUpdate(ctx context.Context, documentID string, requests []*docs.Request) error {
	_, err := c.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return c.wrapDocsError(err)
	}
	return nil
}

// wrapDocsError maps the API error and records 429 backoff on the docs
// limiter.
func (c *Client) wrapDocsError(err error) error {
	wrapped := WrapError(err)
	if IsRateLimited(wrapped) {
		c.docsLimit.RecordRateLimitError(0)
	}
	return wrapped
}

func (c *Client) wrapDriveError(err error) error {
	wrapped := WrapError(err)
	if IsRateLimited(wrapped) {
		c.driveLimit.RecordRateLimitError(0)
	}
	return wrapped
}

// DocumentURL returns the browser link for a document id.
func DocumentURL(documentID string) string {
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}

func fileURL(f *drive.File) string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	if f.MimeType == docMIMEType {
		return DocumentURL(f.Id)
	}
	return "https://drive.google.com/file/d/" + f.Id + "/view"
}

func insertText(index int64, text string) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Text:     text,
			Location: &docs.Location{Index: index},
		},
	}
}

// bodyEndIndex returns the end index of the document body, which is the
// EndIndex of its last structural element. An empty body reads as 1.
func bodyEndIndex(body *docs.Body) int64 {
	if body == nil || len(body.Content) == 0 {
		return 1
	}
	return body.Content[len(body.Content)-1].EndIndex
}

// extractText walks the document body tree and concatenates all text runs,
// descending into table cells.
func extractText(body *docs.Body) string {
	if body == nil {
		return ""
	}
	var sb strings.Builder
	writeStructuralElements(&sb, body.Content)
	return sb.String()
}

func writeStructuralElements(sb *strings.Builder, elements []*docs.StructuralElement) {
	for _, el := range elements {
		switch {
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					sb.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					writeStructuralElements(sb, cell.Content)
				}
			}
		}
	}
}

// escapeQuery escapes the characters Drive's query language treats
// specially inside a string literal.
func escapeQuery(query string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(query)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
