package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// chatSystemPrompt frames the language model as a document assistant when
// one is configured.
const chatSystemPrompt = "You are a document assistant. You help users create, " +
	"find and summarise documents. Answer concisely."

// chatMaxTokens bounds the reply length of the language model branch.
const chatMaxTokens = 1024

// Title and query extraction patterns for the keyword branch. Titles must be
// quoted after called/named/titled; queries are any quoted phrase, or the
// text trailing a search/find keyword.
var (
	titlePattern         = regexp.MustCompile(`(?i)(?:called|named|titled)\s+"([^"]+)"`)
	quotedPattern        = regexp.MustCompile(`"([^"]+)"`)
	trailingQueryPattern = regexp.MustCompile(`(?i)(?:search(?:\s+for)?|find)\s+(.+)$`)
)

// ConversationalCapability answers free-form requests. With a language model
// configured the raw message is forwarded and the reply wrapped as the
// result. Without one, three ordered keyword checks recognise document
// creation, listing and search; anything else fails with guidance.
type ConversationalCapability struct {
	llm driven.LLMService
}

// NewConversationalCapability creates the conversational handler.
// llm may be nil, which selects the keyword-matching branch.
func NewConversationalCapability(llm driven.LLMService) *ConversationalCapability {
	return &ConversationalCapability{llm: llm}
}

// Handle processes one conversational task. The message is read from
// input.message, falling back to the request description.
func (c *ConversationalCapability) Handle(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error) {
	message := inputString(req.Input, "message")
	if message == "" {
		message = req.Description
	}
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	if c.llm != nil {
		return c.chat(ctx, message)
	}
	return c.matchPatterns(ctx, client, message)
}

// chat forwards the raw message to the language model. No pattern matching
// happens on this branch.
func (c *ConversationalCapability) chat(ctx context.Context, message string) (map[string]any, error) {
	reply, err := c.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: message},
	}, driven.ChatOptions{MaxTokens: chatMaxTokens})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	return map[string]any{
		"message": reply,
		"model":   c.llm.ModelName(),
	}, nil
}

// matchPatterns runs the three ordered keyword checks against the
// lower-cased message: create+doc, list+doc, then search.
func (c *ConversationalCapability) matchPatterns(ctx context.Context, client driven.DocsClient, message string) (map[string]any, error) {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "create") && strings.Contains(lower, "doc"):
		doc, err := client.CreateDocument(ctx, extractTitle(message), "")
		if err != nil {
			return nil, fmt.Errorf("creating document: %w", err)
		}
		out := documentResult(doc)
		out["action"] = "created"
		return out, nil

	case strings.Contains(lower, "list") && strings.Contains(lower, "doc"):
		docs, err := client.ListDocuments(ctx, defaultListPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		items := make([]map[string]any, 0, len(docs))
		for i := range docs {
			items = append(items, documentResult(&docs[i]))
		}
		return map[string]any{
			"action":    "listed",
			"count":     len(items),
			"documents": items,
		}, nil

	case strings.Contains(lower, "search"):
		query := extractQuery(message)
		if query == "" {
			return nil, fmt.Errorf("%w: no search phrase found in %q", domain.ErrInvalidInput, message)
		}
		files, err := client.SearchDrive(ctx, query, defaultListPageSize)
		if err != nil {
			return nil, fmt.Errorf("searching drive: %w", err)
		}
		items := make([]map[string]any, 0, len(files))
		for _, f := range files {
			items = append(items, map[string]any{
				"file_id":   f.ID,
				"name":      f.Name,
				"mime_type": f.MIMEType,
				"url":       f.URL,
			})
		}
		return map[string]any{
			"action": "searched",
			"query":  query,
			"count":  len(items),
			"files":  items,
		}, nil
	}

	return nil, fmt.Errorf("%w: cannot interpret %q; without a language model only "+
		"creating, listing and searching documents are understood", domain.ErrLLMUnavailable, message)
}

// extractTitle pulls a quoted title following called/named/titled out of the
// message, defaulting when the phrase is absent.
func extractTitle(message string) string {
	if m := titlePattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return defaultDocumentTitle
}

// extractQuery pulls the search phrase: a quoted phrase wins, otherwise
// everything trailing the search/find keyword.
func extractQuery(message string) string {
	if m := quotedPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := trailingQueryPattern.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
