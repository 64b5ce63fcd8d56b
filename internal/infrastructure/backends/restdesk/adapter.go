// Package restdesk adapts one REST-based ticket desk to the unified helpdesk
// backend contract. Several desks may run at once: each configured endpoint
// key gets its own Adapter instance, and the key becomes the origin tag of
// everything that instance produces.
package restdesk

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"deskhub/internal/domain/helpdesk"
	"deskhub/internal/shared/htmltext"
	"deskhub/internal/shared/logger"
)

// Adapter implements helpdesk.Backend against one REST ticket desk.
type Adapter struct {
	origin helpdesk.Origin
	client *client
	logger logger.Interface
}

// New builds an adapter for the desk reachable at baseURL, tagged with the
// endpoint key it was configured under.
func New(endpointKey, baseURL string, timeout time.Duration, log logger.Interface) *Adapter {
	log = log.Named("restdesk").With("endpoint", endpointKey)
	return &Adapter{
		origin: helpdesk.Origin(endpointKey),
		client: newClient(baseURL, timeout, log),
		logger: log,
	}
}

func (a *Adapter) Origin() helpdesk.Origin {
	return a.origin
}

func (a *Adapter) FetchRoutes(ctx context.Context, id helpdesk.Identity) (helpdesk.AggregateResult[helpdesk.Route], error) {
	var result helpdesk.AggregateResult[helpdesk.Route]

	token, err := a.client.auth(ctx, id.Username, id.Secret)
	if err != nil {
		return result, helpdesk.ClassifyBackendError(a.origin, err)
	}

	var resp listRoutesResponse
	if err := a.client.post(ctx, "/api/routes/list", token, listRoutesRequest{Login: id.Username}, &resp); err != nil {
		return result, helpdesk.ClassifyBackendError(a.origin, err)
	}
	if resp.Routes == nil {
		return result, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("routes list response has no routes field"))
	}

	result.Items = make([]helpdesk.Route, 0, len(resp.Routes))
	for _, wr := range resp.Routes {
		result.Items = append(result.Items, a.mapRoute(wr))
	}
	return result, nil
}

func (a *Adapter) FetchTasks(ctx context.Context, id helpdesk.Identity, filter helpdesk.TaskFilter) (helpdesk.AggregateResult[helpdesk.Task], error) {
	var result helpdesk.AggregateResult[helpdesk.Task]

	token, err := a.client.auth(ctx, id.Username, id.Secret)
	if err != nil {
		return result, helpdesk.ClassifyBackendError(a.origin, err)
	}

	var resp listTicketsResponse
	req := listTicketsRequest{Login: id.Username, Status: filter.Status}
	if err := a.client.post(ctx, "/api/tickets/list", token, req, &resp); err != nil {
		return result, helpdesk.ClassifyBackendError(a.origin, err)
	}
	if resp.Tickets == nil {
		return result, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("ticket list response has no tickets field"))
	}

	result.Items = make([]helpdesk.Task, 0, len(resp.Tickets))
	for _, wt := range resp.Tickets {
		result.Items = append(result.Items, a.mapTicket(wt))
	}
	return result, nil
}

func (a *Adapter) FetchTaskDetail(ctx context.Context, id helpdesk.Identity, ref helpdesk.TaskRef) (*helpdesk.Task, error) {
	token, err := a.client.auth(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}

	var resp getTicketResponse
	if err := a.client.post(ctx, "/api/tickets/get", token, getTicketRequest{Login: id.Username, ID: ref.ID}, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}
	if resp.Ticket == nil {
		return nil, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("ticket get response has no ticket for id %s", ref.ID))
	}

	task := a.mapTicket(*resp.Ticket)
	return &task, nil
}

func (a *Adapter) FetchFile(ctx context.Context, id helpdesk.Identity, ref helpdesk.FileRef) (*helpdesk.TicketFile, error) {
	token, err := a.client.auth(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}

	var resp getFileResponse
	if err := a.client.post(ctx, "/api/files/get", token, getFileRequest{Login: id.Username, ID: ref.ID}, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}
	if resp.File == nil || resp.File.Content == "" {
		return nil, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("file get response has no content for id %s", ref.ID))
	}

	body, err := base64.StdEncoding.DecodeString(resp.File.Content)
	if err != nil {
		return nil, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("file content is not valid base64: %w", err))
	}

	file := a.mapAttachment(*resp.File)
	file.Body = body
	return &file, nil
}

func (a *Adapter) SubmitTask(ctx context.Context, id helpdesk.Identity, task helpdesk.NewTask, attachments []helpdesk.Attachment) (*helpdesk.TaskCreated, error) {
	token, err := a.client.auth(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}

	req := createTicketRequest{
		Login:       id.Username,
		RouteCode:   task.RouteCode,
		ServiceCode: task.ServiceCode,
		Title:       task.Subject,
		Description: task.Body,
	}
	for _, att := range attachments {
		req.Attachments = append(req.Attachments, wireAttachment{
			Name:    att.Name,
			Content: base64.StdEncoding.EncodeToString(att.Body),
		})
	}

	var resp createTicketResponse
	if err := a.client.post(ctx, "/api/tickets/create", token, req, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.origin, err)
	}
	if resp.ID == "" {
		return nil, helpdesk.NewBackendError(a.origin, helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("ticket create response has no id"))
	}

	return &helpdesk.TaskCreated{Origin: a.origin, ID: resp.ID, Code: resp.Number}, nil
}

// EditTask is not offered by the REST desks' API.
func (a *Adapter) EditTask(ctx context.Context, id helpdesk.Identity, edit helpdesk.TaskEdit, attachments []helpdesk.Attachment) (*helpdesk.Task, error) {
	return nil, helpdesk.NewBackendError(a.origin, helpdesk.ErrNotImplemented,
		fmt.Errorf("edit is not supported by this desk"))
}

// --- wire to domain mapping ---

func (a *Adapter) mapRoute(wr wireRoute) helpdesk.Route {
	route := helpdesk.Route{
		Origin:      a.origin,
		Code:        wr.Code,
		Name:        wr.Title,
		Description: htmltext.Strip(wr.Description),
		Avatar:      wr.Icon,
		Services:    make([]helpdesk.Service, 0, len(wr.Services)),
	}
	for _, ws := range wr.Services {
		route.Services = append(route.Services, helpdesk.Service{
			Origin:      a.origin,
			Code:        ws.Code,
			Name:        ws.Title,
			Description: htmltext.Strip(ws.Description),
			RouteCode:   wr.Code,
			Avatar:      ws.Icon,
		})
	}
	return route
}

func (a *Adapter) mapTicket(wt wireTicket) helpdesk.Task {
	task := helpdesk.Task{
		Origin:      a.origin,
		ID:          wt.ID,
		Code:        wt.Number,
		Subject:     wt.Title,
		Body:        htmltext.Strip(wt.Description),
		SmallBody:   helpdesk.SmallBodyOf(wt.Description),
		Status:      wt.Status,
		CreatedDate: parseDate(wt.CreatedAt),
		TimeoutDate: parseDate(wt.DueAt),
		EndDate:     parseDate(wt.ClosedAt),
		Initiator:   a.mapUser(wt.Author),
		Executor:    a.mapUser(wt.Assignee),
	}
	if wt.Route != nil {
		route := a.mapRoute(*wt.Route)
		task.Route = &route
	}
	if wt.Service != nil {
		routeCode := ""
		if wt.Route != nil {
			routeCode = wt.Route.Code
		}
		task.Service = &helpdesk.Service{
			Origin:      a.origin,
			Code:        wt.Service.Code,
			Name:        wt.Service.Title,
			Description: htmltext.Strip(wt.Service.Description),
			RouteCode:   routeCode,
			Avatar:      wt.Service.Icon,
		}
	}
	for _, wa := range wt.Attachments {
		task.Files = append(task.Files, a.mapAttachment(wa))
	}
	for _, wc := range wt.Comments {
		task.Comments = append(task.Comments, a.mapComment(wc))
	}
	return task
}

func (a *Adapter) mapAttachment(wa wireAttachment) helpdesk.TicketFile {
	return helpdesk.TicketFile{
		Origin: a.origin,
		ID:     wa.ID,
		Name:   wa.Name,
		Ext:    wa.Ext,
		Mime:   wa.Mime,
	}
}

func (a *Adapter) mapComment(wc wireComment) helpdesk.Comment {
	comment := helpdesk.Comment{
		Origin:      a.origin,
		Date:        parseDate(wc.Date),
		AuthorLogin: wc.Author,
		Body:        htmltext.Strip(wc.Body),
		Code:        wc.Code,
		ParentCode:  wc.ParentCode,
	}
	for _, wf := range wc.Files {
		comment.Files = append(comment.Files, a.mapAttachment(wf))
	}
	return comment
}

// mapUser splits the desk's compound unit field ("department, division") on
// the first comma.
func (a *Adapter) mapUser(wu wireUser) helpdesk.Person {
	person := helpdesk.Person{
		Login:    wu.Login,
		FullName: wu.Name,
		Email:    wu.Email,
		Phone:    wu.Phone,
	}
	department, division, found := strings.Cut(wu.Unit, ",")
	person.Department = strings.TrimSpace(department)
	if found {
		person.Division = strings.TrimSpace(division)
	}
	return person
}

// parseDate maps the desk's sentinel "empty date" values (empty string or
// the RFC 3339 zero value) to nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	if t.Year() <= 1900 {
		return nil
	}
	t = t.UTC()
	return &t
}
