package helpdesk

import (
	"context"
	"sync"
)

// Identity carries the end user's credentials. Backends authenticate with
// the user's own credentials on every call, so no connection pooling or
// service-account session exists anywhere in the system.
type Identity struct {
	UserID   uint
	Username string
	Secret   string
}

// Backend is implemented once per backend kind. Every method establishes its
// own authenticated connection, honors ctx for its fixed deadline, and
// returns classified errors only (*BackendError); a raw transport error
// escaping an implementation is a bug.
//
// FetchRoutes and FetchTasks return an AggregateResult holding this single
// backend's share of the fan-out. The remaining operations address exactly
// one entity and report failure through the error return.
type Backend interface {
	Origin() Origin
	FetchRoutes(ctx context.Context, id Identity) (AggregateResult[Route], error)
	FetchTasks(ctx context.Context, id Identity, filter TaskFilter) (AggregateResult[Task], error)
	FetchTaskDetail(ctx context.Context, id Identity, ref TaskRef) (*Task, error)
	FetchFile(ctx context.Context, id Identity, ref FileRef) (*TicketFile, error)
	SubmitTask(ctx context.Context, id Identity, task NewTask, attachments []Attachment) (*TaskCreated, error)
	EditTask(ctx context.Context, id Identity, edit TaskEdit, attachments []Attachment) (*Task, error)
}

// Registry holds the configured backends keyed by origin. Adding a backend
// kind means registering another implementation; nothing dispatches on kind
// strings outside the adapters themselves.
type Registry struct {
	mu       sync.RWMutex
	backends map[Origin]Backend
	order    []Origin
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[Origin]Backend)}
}

// Register adds b under its origin. Registering the same origin twice
// replaces the earlier backend but keeps its fan-out position.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	origin := b.Origin()
	if _, exists := r.backends[origin]; !exists {
		r.order = append(r.order, origin)
	}
	r.backends[origin] = b
}

// Get resolves the backend owning origin.
func (r *Registry) Get(origin Origin) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[origin]
	return b, ok
}

// All returns the backends in registration order, the order fan-outs are
// issued in.
func (r *Registry) All() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, 0, len(r.order))
	for _, origin := range r.order {
		out = append(out, r.backends[origin])
	}
	return out
}

// Len reports the number of registered backends.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.backends)
}
