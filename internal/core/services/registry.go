package services

import (
	"context"
	"sort"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// CapabilityHandler executes one task against the acting user's client.
// The result map becomes the task output verbatim.
type CapabilityHandler func(ctx context.Context, client driven.DocsClient, req domain.TaskRequest) (map[string]any, error)

type capability struct {
	description string
	handle      CapabilityHandler
}

// CapabilityRegistry is the closed dispatch table mapping task-type keys to
// handlers. The capability set is fixed at construction; no key is ever
// registered twice and nothing is added at runtime. Lookups are by key only,
// so registration order does not affect behavior.
type CapabilityRegistry struct {
	capabilities map[string]capability
	types        []string
}

// NewCapabilityRegistry builds the registry from the fixed capability set:
// the document operations, drive search, and the conversational fallback.
func NewCapabilityRegistry(docs *DocsCapability, chat *ConversationalCapability) *CapabilityRegistry {
	r := &CapabilityRegistry{capabilities: make(map[string]capability)}

	r.register(domain.TaskTypeDocsCreate, "Create a Google Doc with a title and optional body text", docs.Create)
	r.register(domain.TaskTypeDocsRead, "Read a Google Doc as plain text by document id", docs.Read)
	r.register(domain.TaskTypeDocsUpdate, "Replace the body of a Google Doc", docs.Update)
	r.register(domain.TaskTypeDocsAppend, "Append text to the end of a Google Doc", docs.Append)
	r.register(domain.TaskTypeDocsList, "List the user's Google Docs, most recently modified first", docs.List)
	r.register(domain.TaskTypeDriveSearch, "Full-text search across the user's Drive files", docs.Search)
	r.register(domain.TaskTypeChat, "Answer a free-form request, acting on documents when the intent is clear", chat.Handle)

	r.types = make([]string, 0, len(r.capabilities))
	for key := range r.capabilities {
		r.types = append(r.types, key)
	}
	sort.Strings(r.types)

	return r
}

func (r *CapabilityRegistry) register(taskType, description string, handle CapabilityHandler) {
	r.capabilities[taskType] = capability{description: description, handle: handle}
}

// Resolve returns the handler registered for the exact task type.
func (r *CapabilityRegistry) Resolve(taskType string) (CapabilityHandler, bool) {
	c, ok := r.capabilities[taskType]
	if !ok {
		return nil, false
	}
	return c.handle, true
}

// Types returns the registered task-type keys in sorted order.
func (r *CapabilityRegistry) Types() []string {
	out := make([]string, len(r.types))
	copy(out, r.types)
	return out
}

// List returns metadata for every registered capability, sorted by type.
func (r *CapabilityRegistry) List() []domain.CapabilityInfo {
	out := make([]domain.CapabilityInfo, 0, len(r.types))
	for _, key := range r.types {
		out = append(out, domain.CapabilityInfo{
			Type:        key,
			Description: r.capabilities[key].description,
		})
	}
	return out
}
