package helpdesk

import (
	"context"

	domain "deskhub/internal/domain/helpdesk"
	"deskhub/internal/shared/logger"
)

// Service is the integration surface the resolver layer calls: the two
// cached multi-item reads plus the single-entity pass-through operations.
type Service struct {
	aggregator *Aggregator
	routes     *Refresher[domain.Route]
	tasks      *Refresher[domain.Task]
	logger     logger.Interface
}

func NewService(
	aggregator *Aggregator,
	routes *Refresher[domain.Route],
	tasks *Refresher[domain.Task],
	log logger.Interface,
) *Service {
	return &Service{
		aggregator: aggregator,
		routes:     routes,
		tasks:      tasks,
		logger:     log.Named("helpdesk"),
	}
}

// Routes serves the aggregated route catalog through the cache engine.
func (s *Service) Routes(ctx context.Context, id domain.Identity, skipCache bool) (domain.AggregateResult[domain.Route], error) {
	return s.routes.Get(ctx, id, skipCache)
}

// Tasks serves the aggregated ticket list. Only the unfiltered list goes
// through the cache engine — the cache is keyed by (user, kind) alone, so a
// status-filtered request goes straight to the backends.
func (s *Service) Tasks(ctx context.Context, id domain.Identity, filter domain.TaskFilter, skipCache bool) (domain.AggregateResult[domain.Task], error) {
	if filter != (domain.TaskFilter{}) {
		return s.aggregator.Tasks(ctx, id, filter), nil
	}
	return s.tasks.Get(ctx, id, skipCache)
}

// TaskDetail fetches one task from its owning backend.
func (s *Service) TaskDetail(ctx context.Context, id domain.Identity, ref domain.TaskRef) (*domain.Task, error) {
	return s.aggregator.TaskDetail(ctx, id, ref)
}

// File fetches one attachment's bytes from its owning backend.
func (s *Service) File(ctx context.Context, id domain.Identity, ref domain.FileRef) (*domain.TicketFile, error) {
	return s.aggregator.File(ctx, id, ref)
}

// Submit creates a ticket on the backend addressed by origin.
func (s *Service) Submit(ctx context.Context, id domain.Identity, origin domain.Origin, task domain.NewTask, attachments []domain.Attachment) (*domain.TaskCreated, error) {
	return s.aggregator.Submit(ctx, id, origin, task, attachments)
}

// Edit updates a ticket on the backend addressed by origin.
func (s *Service) Edit(ctx context.Context, id domain.Identity, origin domain.Origin, edit domain.TaskEdit, attachments []domain.Attachment) (*domain.Task, error) {
	return s.aggregator.Edit(ctx, id, origin, edit, attachments)
}
