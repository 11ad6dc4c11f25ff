package services

import (
	"context"
	"fmt"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// defaultDocumentTitle names documents created without an explicit title.
const defaultDocumentTitle = "Untitled Document"

// defaultListPageSize caps list and search results when the request does
// not specify a page size.
const defaultListPageSize = 20

// DocsCapability implements the document task handlers. Each handler reads
// its parameters from the task input map and shapes the client result into
// the task output map.
type DocsCapability struct{}

// NewDocsCapability creates the document capability handlers.
func NewDocsCapability() *DocsCapability {
	return &DocsCapability{}
}

// Create makes a new document. Input: title (optional), content (optional).
func (c *DocsCapability) Create(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	title := inputString(req.Input, "title")
	if title == "" {
		title = defaultDocumentTitle
	}
	content := inputString(req.Input, "content")

	doc, err := client.CreateDocument(ctx, title, content)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return documentResult(doc), nil
}

// Read returns a document's plain-text body. Input: document_id (required).
func (c *DocsCapability) Read(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	documentID := inputString(req.Input, "document_id")
	if documentID == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	doc, err := client.ReadDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	out := documentResult(doc)
	out["content"] = doc.Content
	return out, nil
}

// Update replaces a document's body. Input: document_id (required),
// content (the new body, may be empty to clear the document).
func (c *DocsCapability) Update(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	documentID := inputString(req.Input, "document_id")
	if documentID == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}
	content := inputString(req.Input, "content")

	doc, err := client.UpdateDocument(ctx, documentID, content)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return documentResult(doc), nil
}

// Append adds text at the end of a document. Input: document_id (required),
// content (required).
func (c *DocsCapability) Append(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	documentID := inputString(req.Input, "document_id")
	if documentID == "" {
		return nil, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}
	content := inputString(req.Input, "content")
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	doc, err := client.AppendToDocument(ctx, documentID, content)
	if err != nil {
		return nil, fmt.Errorf("appending to document: %w", err)
	}
	return documentResult(doc), nil
}

// List returns the user's documents. Input: page_size (optional).
func (c *DocsCapability) List(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	pageSize := inputInt64(req.Input, "page_size")
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}

	docs, err := client.ListDocuments(ctx, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	items := make([]map[string]any, 0, len(docs))
	for i := range docs {
		items = append(items, documentResult(&docs[i]))
	}
	return map[string]any{
		"count":     len(items),
		"documents": items,
	}, nil
}

// Search runs a full-text search across the user's files.
// Input: query (required, falls back to the message text), page_size
// (optional).
func (c *DocsCapability) Search(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	query := inputString(req.Input, "query")
	if query == "" {
		query = inputString(req.Input, "message")
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	pageSize := inputInt64(req.Input, "page_size")
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}

	files, err := client.SearchDrive(ctx, query, pageSize)
	if err != nil {
		return nil, fmt.Errorf("searching drive: %w", err)
	}

	items := make([]map[string]any, 0, len(files))
	for _, f := range files {
		item := map[string]any{
			"file_id":   f.ID,
			"name":      f.Name,
			"mime_type": f.MIMEType,
			"url":       f.URL,
		}
		if !f.ModifiedTime.IsZero() {
			item["modified_time"] = f.ModifiedTime
		}
		items = append(items, item)
	}
	return map[string]any{
		"query": query,
		"count": len(items),
		"files": items,
	}, nil
}

func documentResult(doc *domain.Document) map[string]any {
	out := map[string]any{
		"document_id": doc.ID,
		"title":       doc.Title,
		"url":         doc.URL,
	}
	if !doc.ModifiedTime.IsZero() {
		out["modified_time"] = doc.ModifiedTime
	}
	return out
}

// inputString reads a string value from a task input map. Missing keys and
// non-string values read as empty.
func inputString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// inputInt64 reads an integer value from a task input map, tolerating the
// float64 that JSON decoding produces. Missing keys read as zero.
func inputInt64(m map[string]any, key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
