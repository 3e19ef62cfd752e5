package event

import (
	"sync"

	"github.com/givebridge/backend/internal/domain/shared"
)

// registration binds a handler to an optional organization scope.
// An empty orgID means the handler receives matching events from every
// organization.
type registration struct {
	handler shared.EventHandler
	orgID   string
}

// HandlerRegistry manages event handler registrations
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]registration // eventType -> registrations
	wildcard []registration            // registrations for all events
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]registration),
		wildcard: make([]registration, 0),
	}
}

// Register adds a handler for specific event types
// If no event types are provided, the handler receives all events
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.register(registration{handler: handler}, eventTypes...)
}

// RegisterOrganization adds a handler that only receives events scoped to the
// given organization
func (r *HandlerRegistry) RegisterOrganization(orgID string, handler shared.EventHandler, eventTypes ...string) {
	r.register(registration{handler: handler, orgID: orgID}, eventTypes...)
}

func (r *HandlerRegistry) register(reg registration, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, reg)
		return
	}

	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], reg)
	}
}

// Unregister removes a handler from all event types and scopes
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = removeHandler(r.wildcard, handler)

	for eventType, regs := range r.handlers {
		r.handlers[eventType] = removeHandler(regs, handler)
		if len(r.handlers[eventType]) == 0 {
			delete(r.handlers, eventType)
		}
	}
}

// GetHandlers returns all handlers interested in an event of the given type
// scoped to the given organization. Type-specific registrations come before
// wildcard registrations.
func (r *HandlerRegistry) GetHandlers(eventType, orgID string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeRegs := r.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typeRegs)+len(r.wildcard))
	for _, reg := range typeRegs {
		if reg.orgID == "" || reg.orgID == orgID {
			result = append(result, reg.handler)
		}
	}
	for _, reg := range r.wildcard {
		if reg.orgID == "" || reg.orgID == orgID {
			result = append(result, reg.handler)
		}
	}

	return result
}

// GetAllHandlers returns all registered handlers, deduplicated
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]bool)
	result := make([]shared.EventHandler, 0)

	for _, reg := range r.wildcard {
		if !seen[reg.handler] {
			seen[reg.handler] = true
			result = append(result, reg.handler)
		}
	}
	for _, regs := range r.handlers {
		for _, reg := range regs {
			if !seen[reg.handler] {
				seen[reg.handler] = true
				result = append(result, reg.handler)
			}
		}
	}

	return result
}

func removeHandler(regs []registration, target shared.EventHandler) []registration {
	result := make([]registration, 0, len(regs))
	for _, reg := range regs {
		if reg.handler != target {
			result = append(result, reg)
		}
	}
	return result
}
