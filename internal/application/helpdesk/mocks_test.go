package helpdesk

import (
	"context"
	"sync"

	domain "deskhub/internal/domain/helpdesk"
)

// mockBackend implements domain.Backend with per-method function fields.
// Unset fields return empty results so tests only wire what they exercise.
type mockBackend struct {
	origin          domain.Origin
	FetchRoutesFunc func(ctx context.Context, id domain.Identity) (domain.AggregateResult[domain.Route], error)
	FetchTasksFunc  func(ctx context.Context, id domain.Identity, filter domain.TaskFilter) (domain.AggregateResult[domain.Task], error)
	FetchDetailFunc func(ctx context.Context, id domain.Identity, ref domain.TaskRef) (*domain.Task, error)
	FetchFileFunc   func(ctx context.Context, id domain.Identity, ref domain.FileRef) (*domain.TicketFile, error)
	SubmitTaskFunc  func(ctx context.Context, id domain.Identity, task domain.NewTask, attachments []domain.Attachment) (*domain.TaskCreated, error)
	EditTaskFunc    func(ctx context.Context, id domain.Identity, edit domain.TaskEdit, attachments []domain.Attachment) (*domain.Task, error)
}

func (m *mockBackend) Origin() domain.Origin { return m.origin }

func (m *mockBackend) FetchRoutes(ctx context.Context, id domain.Identity) (domain.AggregateResult[domain.Route], error) {
	if m.FetchRoutesFunc != nil {
		return m.FetchRoutesFunc(ctx, id)
	}
	return domain.AggregateResult[domain.Route]{Items: []domain.Route{}}, nil
}

func (m *mockBackend) FetchTasks(ctx context.Context, id domain.Identity, filter domain.TaskFilter) (domain.AggregateResult[domain.Task], error) {
	if m.FetchTasksFunc != nil {
		return m.FetchTasksFunc(ctx, id, filter)
	}
	return domain.AggregateResult[domain.Task]{Items: []domain.Task{}}, nil
}

func (m *mockBackend) FetchTaskDetail(ctx context.Context, id domain.Identity, ref domain.TaskRef) (*domain.Task, error) {
	if m.FetchDetailFunc != nil {
		return m.FetchDetailFunc(ctx, id, ref)
	}
	return nil, domain.NewBackendError(m.origin, domain.ErrNotImplemented, nil)
}

func (m *mockBackend) FetchFile(ctx context.Context, id domain.Identity, ref domain.FileRef) (*domain.TicketFile, error) {
	if m.FetchFileFunc != nil {
		return m.FetchFileFunc(ctx, id, ref)
	}
	return nil, domain.NewBackendError(m.origin, domain.ErrNotImplemented, nil)
}

func (m *mockBackend) SubmitTask(ctx context.Context, id domain.Identity, task domain.NewTask, attachments []domain.Attachment) (*domain.TaskCreated, error) {
	if m.SubmitTaskFunc != nil {
		return m.SubmitTaskFunc(ctx, id, task, attachments)
	}
	return nil, domain.NewBackendError(m.origin, domain.ErrNotImplemented, nil)
}

func (m *mockBackend) EditTask(ctx context.Context, id domain.Identity, edit domain.TaskEdit, attachments []domain.Attachment) (*domain.Task, error) {
	if m.EditTaskFunc != nil {
		return m.EditTaskFunc(ctx, id, edit, attachments)
	}
	return nil, domain.NewBackendError(m.origin, domain.ErrNotImplemented, nil)
}

// mockStore is an in-memory Store[T] with optional overrides.
type mockStore[T any] struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheEntry[T]
	sets    int
	GetFunc func(ctx context.Context, key string) (*domain.CacheEntry[T], error)
	SetFunc func(ctx context.Context, key string, value domain.AggregateResult[T]) (*domain.CacheEntry[T], error)
}

func newMockStore[T any]() *mockStore[T] {
	return &mockStore[T]{entries: make(map[string]*domain.CacheEntry[T])}
}

func (m *mockStore[T]) Get(ctx context.Context, key string) (*domain.CacheEntry[T], error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

func (m *mockStore[T]) Set(ctx context.Context, key string, value domain.AggregateResult[T]) (*domain.CacheEntry[T], error) {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &domain.CacheEntry[T]{Value: value}
	m.entries[key] = entry
	m.sets++
	return entry, nil
}

func (m *mockStore[T]) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *mockStore[T]) seed(key string, value domain.AggregateResult[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &domain.CacheEntry[T]{Value: value}
}

// mockBus records published snapshots.
type mockBus struct {
	mu        sync.Mutex
	published []publishedMessage
}

type publishedMessage struct {
	topic   string
	payload any
}

func (m *mockBus) Publish(ctx context.Context, topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMessage{topic: topic, payload: payload})
	return nil
}

func (m *mockBus) messages() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

// mockScheduler captures the keep-warm callbacks so tests can fire them by
// hand.
type mockScheduler struct {
	mu      sync.Mutex
	ensured map[string]func(ctx context.Context)
	dropped []string
}

func newMockScheduler() *mockScheduler {
	return &mockScheduler{ensured: make(map[string]func(ctx context.Context))}
}

func (m *mockScheduler) Ensure(key string, fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured[key] = fn
}

func (m *mockScheduler) Drop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped = append(m.dropped, key)
}

func (m *mockScheduler) fire(ctx context.Context, key string) bool {
	m.mu.Lock()
	fn := m.ensured[key]
	m.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(ctx)
	return true
}

func (m *mockScheduler) droppedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.dropped))
	copy(out, m.dropped)
	return out
}
