package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolabs/folio/internal/core/domain"
)

func taskInput(pairs map[string]any) domain.TaskRequest {
	return domain.TaskRequest{Input: pairs}
}

func TestDocsCapabilityCreate(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("creates with title and content", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{
			ID: "d1", Title: "Plan", URL: "https://docs.example/d1",
		}}

		out, err := docs.Create(ctx, client, taskInput(map[string]any{
			"title":   "Plan",
			"content": "first line",
		}))

		require.NoError(t, err)
		assert.Equal(t, "d1", out["document_id"])
		assert.Equal(t, "Plan", out["title"])
		assert.Equal(t, "https://docs.example/d1", out["url"])
		assert.Equal(t, "first line", client.lastContent)
	})

	t.Run("defaults the title", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{ID: "d1"}}

		_, err := docs.Create(ctx, client, taskInput(nil))

		require.NoError(t, err)
		assert.Equal(t, defaultDocumentTitle, client.lastTitle)
	})
}

func TestDocsCapabilityRead(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("returns the body", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{
			ID: "d1", Title: "Plan", Content: "body text",
		}}

		out, err := docs.Read(ctx, client, taskInput(map[string]any{"document_id": "d1"}))

		require.NoError(t, err)
		assert.Equal(t, "body text", out["content"])
		assert.Equal(t, "d1", client.lastDocID)
	})

	t.Run("requires document_id", func(t *testing.T) {
		_, err := docs.Read(ctx, &mockDocsClient{}, taskInput(nil))

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocsCapabilityUpdate(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("replaces the body", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{ID: "d1"}}

		_, err := docs.Update(ctx, client, taskInput(map[string]any{
			"document_id": "d1",
			"content":     "new body",
		}))

		require.NoError(t, err)
		assert.Equal(t, "d1", client.lastDocID)
		assert.Equal(t, "new body", client.lastContent)
	})

	t.Run("empty content clears the document", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{ID: "d1"}}

		_, err := docs.Update(ctx, client, taskInput(map[string]any{"document_id": "d1"}))

		require.NoError(t, err)
		assert.Empty(t, client.lastContent)
	})

	t.Run("requires document_id", func(t *testing.T) {
		_, err := docs.Update(ctx, &mockDocsClient{}, taskInput(map[string]any{"content": "x"}))

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocsCapabilityAppend(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("appends content", func(t *testing.T) {
		client := &mockDocsClient{document: &domain.Document{ID: "d1"}}

		_, err := docs.Append(ctx, client, taskInput(map[string]any{
			"document_id": "d1",
			"content":     "appended",
		}))

		require.NoError(t, err)
		assert.Equal(t, "appended", client.lastContent)
	})

	t.Run("requires content", func(t *testing.T) {
		_, err := docs.Append(ctx, &mockDocsClient{}, taskInput(map[string]any{"document_id": "d1"}))

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocsCapabilityList(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("defaults the page size", func(t *testing.T) {
		client := &mockDocsClient{documents: []domain.Document{{ID: "d1"}}}

		out, err := docs.List(ctx, client, taskInput(nil))

		require.NoError(t, err)
		assert.Equal(t, 1, out["count"])
		assert.Equal(t, int64(defaultListPageSize), client.lastPageSize)
	})

	t.Run("honours a JSON-decoded page size", func(t *testing.T) {
		client := &mockDocsClient{}

		_, err := docs.List(ctx, client, taskInput(map[string]any{"page_size": float64(5)}))

		require.NoError(t, err)
		assert.Equal(t, int64(5), client.lastPageSize)
	})
}

func TestDocsCapabilitySearch(t *testing.T) {
	ctx := context.Background()
	docs := NewDocsCapability()

	t.Run("shapes the file results", func(t *testing.T) {
		client := &mockDocsClient{files: []domain.DriveFile{
			{ID: "f1", Name: "budget.xlsx", MIMEType: "application/vnd.ms-excel", URL: "https://drive.example/f1"},
		}}

		out, err := docs.Search(ctx, client, taskInput(map[string]any{"query": "budget"}))

		require.NoError(t, err)
		assert.Equal(t, "budget", out["query"])
		assert.Equal(t, 1, out["count"])
		files, ok := out["files"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, files, 1)
		assert.Equal(t, "f1", files[0]["file_id"])
		assert.Equal(t, "budget.xlsx", files[0]["name"])
	})

	t.Run("query falls back to the message", func(t *testing.T) {
		client := &mockDocsClient{}

		_, err := docs.Search(ctx, client, taskInput(map[string]any{"message": "budget"}))

		require.NoError(t, err)
		assert.Equal(t, "budget", client.lastQuery)
	})

	t.Run("requires a query", func(t *testing.T) {
		_, err := docs.Search(ctx, &mockDocsClient{}, taskInput(nil))

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCapabilityRegistry(t *testing.T) {
	registry := NewCapabilityRegistry(NewDocsCapability(), NewConversationalCapability(nil))

	t.Run("resolves every registered type", func(t *testing.T) {
		for _, taskType := range registry.Types() {
			handle, ok := registry.Resolve(taskType)
			assert.True(t, ok, taskType)
			assert.NotNil(t, handle, taskType)
		}
	})

	t.Run("unknown type does not resolve", func(t *testing.T) {
		_, ok := registry.Resolve("google:sheets:create")
		assert.False(t, ok)
	})

	t.Run("types are sorted", func(t *testing.T) {
		types := registry.Types()
		assert.True(t, sort.StringsAreSorted(types))
		assert.Len(t, types, 7)
	})

	t.Run("list matches the type set", func(t *testing.T) {
		infos := registry.List()
		require.Len(t, infos, len(registry.Types()))
		for i, info := range infos {
			assert.Equal(t, registry.Types()[i], info.Type)
			assert.NotEmpty(t, info.Description)
		}
	})
}
