// Package helpdesk implements the aggregation and cache-refresh engine on
// top of the domain model: fanning one logical request out to every
// configured backend, tolerating partial failure, and keeping the shared
// cache warm.
package helpdesk

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	domain "deskhub/internal/domain/helpdesk"
	"deskhub/internal/shared/logger"
)

// Aggregator fans a request out to all registered backends concurrently and
// merges their shares into one deterministic result. Multi-item operations
// never fail as a whole: each failed backend contributes one error code and
// the successful items are kept.
type Aggregator struct {
	registry *domain.Registry
	logger   logger.Interface
}

func NewAggregator(registry *domain.Registry, log logger.Interface) *Aggregator {
	return &Aggregator{
		registry: registry,
		logger:   log.Named("aggregator"),
	}
}

// Routes aggregates the route catalogs of every backend, sorted by name.
func (a *Aggregator) Routes(ctx context.Context, id domain.Identity) domain.AggregateResult[domain.Route] {
	result := fanOut(ctx, a.registry.All(), a.logger, "routes",
		func(ctx context.Context, b domain.Backend) (domain.AggregateResult[domain.Route], error) {
			return b.FetchRoutes(ctx, id)
		})
	domain.SortRoutes(result.Items)
	return result
}

// Tasks aggregates the users's tickets across every backend, newest first.
func (a *Aggregator) Tasks(ctx context.Context, id domain.Identity, filter domain.TaskFilter) domain.AggregateResult[domain.Task] {
	result := fanOut(ctx, a.registry.All(), a.logger, "tasks",
		func(ctx context.Context, b domain.Backend) (domain.AggregateResult[domain.Task], error) {
			return b.FetchTasks(ctx, id, filter)
		})
	domain.SortTasks(result.Items)
	return result
}

// TaskDetail fetches one task from the backend its origin tag names.
func (a *Aggregator) TaskDetail(ctx context.Context, id domain.Identity, ref domain.TaskRef) (*domain.Task, error) {
	backend, err := a.resolve(ref.Origin)
	if err != nil {
		return nil, err
	}
	return backend.FetchTaskDetail(ctx, id, ref)
}

// File fetches one attachment's bytes from the backend owning it.
func (a *Aggregator) File(ctx context.Context, id domain.Identity, ref domain.FileRef) (*domain.TicketFile, error) {
	backend, err := a.resolve(ref.Origin)
	if err != nil {
		return nil, err
	}
	return backend.FetchFile(ctx, id, ref)
}

// Submit creates a task on the backend addressed by origin.
func (a *Aggregator) Submit(ctx context.Context, id domain.Identity, origin domain.Origin, task domain.NewTask, attachments []domain.Attachment) (*domain.TaskCreated, error) {
	backend, err := a.resolve(origin)
	if err != nil {
		return nil, err
	}
	return backend.SubmitTask(ctx, id, task, attachments)
}

// Edit updates a task on the backend addressed by origin.
func (a *Aggregator) Edit(ctx context.Context, id domain.Identity, origin domain.Origin, edit domain.TaskEdit, attachments []domain.Attachment) (*domain.Task, error) {
	backend, err := a.resolve(origin)
	if err != nil {
		return nil, err
	}
	return backend.EditTask(ctx, id, edit, attachments)
}

func (a *Aggregator) resolve(origin domain.Origin) (domain.Backend, error) {
	backend, ok := a.registry.Get(origin)
	if !ok {
		return nil, domain.NewBackendError(origin, domain.ErrBackendMisconfigured,
			fmt.Errorf("no backend registered for origin %q", origin))
	}
	return backend, nil
}

// fanOut issues fetch against every backend concurrently and waits for all
// of them to settle. The collectors always return nil, so the group never
// cancels siblings: one backend's failure or latency cannot shorten
// another's call. Results land in per-backend slots, then successes are
// merged in registration order and each failure becomes one error code.
func fanOut[T any](
	ctx context.Context,
	backends []domain.Backend,
	log logger.Interface,
	op string,
	fetch func(ctx context.Context, b domain.Backend) (domain.AggregateResult[T], error),
) domain.AggregateResult[T] {
	shares := make([]domain.AggregateResult[T], len(backends))
	failures := make([]error, len(backends))

	var g errgroup.Group
	for i, backend := range backends {
		g.Go(func() error {
			shares[i], failures[i] = fetch(ctx, backend)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // collectors never return an error

	var merged domain.AggregateResult[T]
	for i, backend := range backends {
		if failures[i] != nil {
			code := domain.CodeOf(failures[i])
			merged.Errors = append(merged.Errors, code)
			log.Warnw("backend failed during fan-out",
				"op", op,
				"origin", backend.Origin(),
				"code", code,
				"error", failures[i],
			)
			continue
		}
		merged.Items = append(merged.Items, shares[i].Items...)
	}
	if merged.Items == nil {
		merged.Items = []T{}
	}
	return merged
}
