package backends

import (
	"context"
	"fmt"

	"deskhub/internal/domain/helpdesk"
)

// Misconfigured stands in for an endpoint whose configured kind does not
// match any known backend classification. Every operation fails with
// ErrBackendMisconfigured, so the problem surfaces as one error entry in
// each aggregate without aborting the sibling backends.
type Misconfigured struct {
	origin helpdesk.Origin
	kind   string
}

func NewMisconfigured(origin helpdesk.Origin, kind string) *Misconfigured {
	return &Misconfigured{origin: origin, kind: kind}
}

func (m *Misconfigured) Origin() helpdesk.Origin {
	return m.origin
}

func (m *Misconfigured) err() error {
	return helpdesk.NewBackendError(m.origin, helpdesk.ErrBackendMisconfigured,
		fmt.Errorf("endpoint kind %q is not a recognized backend classification", m.kind))
}

func (m *Misconfigured) FetchRoutes(ctx context.Context, id helpdesk.Identity) (helpdesk.AggregateResult[helpdesk.Route], error) {
	return helpdesk.AggregateResult[helpdesk.Route]{}, m.err()
}

func (m *Misconfigured) FetchTasks(ctx context.Context, id helpdesk.Identity, filter helpdesk.TaskFilter) (helpdesk.AggregateResult[helpdesk.Task], error) {
	return helpdesk.AggregateResult[helpdesk.Task]{}, m.err()
}

func (m *Misconfigured) FetchTaskDetail(ctx context.Context, id helpdesk.Identity, ref helpdesk.TaskRef) (*helpdesk.Task, error) {
	return nil, m.err()
}

func (m *Misconfigured) FetchFile(ctx context.Context, id helpdesk.Identity, ref helpdesk.FileRef) (*helpdesk.TicketFile, error) {
	return nil, m.err()
}

func (m *Misconfigured) SubmitTask(ctx context.Context, id helpdesk.Identity, task helpdesk.NewTask, attachments []helpdesk.Attachment) (*helpdesk.TaskCreated, error) {
	return nil, m.err()
}

func (m *Misconfigured) EditTask(ctx context.Context, id helpdesk.Identity, edit helpdesk.TaskEdit, attachments []helpdesk.Attachment) (*helpdesk.Task, error) {
	return nil, m.err()
}
