package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// UserRef identifies the account a tool call acts on. Exactly one of the
// two fields is needed; user_id wins when both are set.
type UserRef struct {
	UserID    string `json:"user_id,omitempty" jsonschema:"stable id of the connected user"`
	UserEmail string `json:"user_email,omitempty" jsonschema:"email of the connected user"`
}

// CreateDocumentInput is the input schema for the create_document tool.
type CreateDocumentInput struct {
	UserRef
	Title   string `json:"title" jsonschema:"title of the new document"`
	Content string `json:"content,omitempty" jsonschema:"initial body text"`
}

// ReadDocumentInput is the input schema for the read_document tool.
type ReadDocumentInput struct {
	UserRef
	DocumentID string `json:"document_id" jsonschema:"id of the document to read"`
}

// WriteDocumentInput is the input schema for the update and append tools.
type WriteDocumentInput struct {
	UserRef
	DocumentID string `json:"document_id" jsonschema:"id of the document to modify"`
	Content    string `json:"content" jsonschema:"text to write"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	UserRef
	PageSize int64 `json:"page_size,omitempty" jsonschema:"maximum number of documents to return (default 20)"`
}

// SearchDriveInput is the input schema for the search_drive tool.
type SearchDriveInput struct {
	UserRef
	Query    string `json:"query" jsonschema:"full-text search query"`
	PageSize int64  `json:"page_size,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// DocumentOutput is the tool-facing view of a document.
type DocumentOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content,omitempty"`
	URL          string `json:"url"`
	ModifiedTime string `json:"modified_time,omitempty"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DriveFileOutput is one search hit.
type DriveFileOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MIMEType     string `json:"mime_type"`
	URL          string `json:"url"`
	ModifiedTime string `json:"modified_time,omitempty"`
}

// SearchDriveOutput is the output schema for the search_drive tool.
type SearchDriveOutput struct {
	Files []DriveFileOutput `json:"files"`
	Count int               `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_document",
		Description: "Create a new document in the user's account",
	}, s.handleCreateDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_document",
		Description: "Read a document's plain-text body",
	}, s.handleReadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_document",
		Description: "Replace a document's body with new text",
	}, s.handleUpdateDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "append_document",
		Description: "Append text to the end of a document",
	}, s.handleAppendDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the user's documents, most recently modified first",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_drive",
		Description: "Full-text search across the user's files",
	}, s.handleSearchDrive)
}

// resolveClient turns a UserRef into a ready-to-call client.
func (s *Server) resolveClient(ctx context.Context, ref UserRef) (driven.DocsClient, error) {
	switch {
	case ref.UserID != "":
		client, ok, err := s.ports.Clients.GetForUser(ctx, ref.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUserNotConnected
		}
		return client, nil
	case ref.UserEmail != "":
		client, ok, err := s.ports.Clients.GetForEmail(ctx, ref.UserEmail)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUserNotConnected
		}
		return client, nil
	default:
		return nil, ErrMissingUserRef
	}
}

func (s *Server) handleCreateDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	doc, err := client.CreateDocument(ctx, input.Title, input.Content)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(doc.ID, doc.Title, doc.Content, doc.URL, doc.ModifiedTime), nil
}

func (s *Server) handleReadDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	doc, err := client.ReadDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(doc.ID, doc.Title, doc.Content, doc.URL, doc.ModifiedTime), nil
}

func (s *Server) handleUpdateDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WriteDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	doc, err := client.UpdateDocument(ctx, input.DocumentID, input.Content)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(doc.ID, doc.Title, doc.Content, doc.URL, doc.ModifiedTime), nil
}

func (s *Server) handleAppendDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WriteDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	doc, err := client.AppendToDocument(ctx, input.DocumentID, input.Content)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(doc.ID, doc.Title, doc.Content, doc.URL, doc.ModifiedTime), nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	docs, err := client.ListDocuments(ctx, pageSize)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(
			docs[i].ID, docs[i].Title, "", docs[i].URL, docs[i].ModifiedTime)
	}
	return nil, output, nil
}

func (s *Server) handleSearchDrive(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDriveInput,
) (*mcp.CallToolResult, SearchDriveOutput, error) {
	client, err := s.resolveClient(ctx, input.UserRef)
	if err != nil {
		return nil, SearchDriveOutput{}, err
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	files, err := client.SearchDrive(ctx, input.Query, pageSize)
	if err != nil {
		return nil, SearchDriveOutput{}, err
	}

	output := SearchDriveOutput{
		Files: make([]DriveFileOutput, len(files)),
		Count: len(files),
	}
	for i := range files {
		modified := ""
		if !files[i].ModifiedTime.IsZero() {
			modified = files[i].ModifiedTime.Format(time.RFC3339)
		}
		output.Files[i] = DriveFileOutput{
			ID:           files[i].ID,
			Name:         files[i].Name,
			MIMEType:     files[i].MIMEType,
			URL:          files[i].URL,
			ModifiedTime: modified,
		}
	}
	return nil, output, nil
}

func documentOutput(id, title, content, url string, modified time.Time) DocumentOutput {
	out := DocumentOutput{ID: id, Title: title, Content: content, URL: url}
	if !modified.IsZero() {
		out.ModifiedTime = modified.Format(time.RFC3339)
	}
	return out
}
