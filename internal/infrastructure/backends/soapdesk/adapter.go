// Package soapdesk adapts the SOAP-based legacy service desk to the unified
// helpdesk backend contract. The desk's XML wire format stays private here.
package soapdesk

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

// dateLayout is the desk's local-less timestamp format.
const dateLayout = "2006-01-02T15:04:05"

// Adapter implements helpdesk.Backend against the legacy SOAP desk.
type Adapter struct {
	client *client
	logger logger.Interface
}

// New builds the legacy adapter. url points at the desk's SOAP endpoint;
// timeout is the fixed per-call deadline.
func New(url, namespace string, timeout time.Duration, log logger.Interface) *Adapter {
	log = log.Named("soapdesk")
	return &Adapter{
		client: newClient(url, namespace, timeout, log),
		logger: log,
	}
}

func (a *Adapter) Origin() helpdesk.Origin {
	return helpdesk.OriginLegacy
}

func (a *Adapter) FetchRoutes(ctx context.Context, id helpdesk.Identity) (helpdesk.AggregateResult[helpdesk.Route], error) {
	var result helpdesk.AggregateResult[helpdesk.Route]

	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return result, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	var resp getRoutesResponse
	if err := a.client.call(ctx, "GetRoutes", getRoutesRequest{NS: a.client.namespace, Login: id.Username}, token, &resp); err != nil {
		return result, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.Routes == nil {
		return result, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("GetRoutes response has no routes element"))
	}

	result.Items = make([]helpdesk.Route, 0, len(resp.Routes.Items))
	for _, wr := range resp.Routes.Items {
		result.Items = append(result.Items, a.mapRoute(wr))
	}
	return result, nil
}

func (a *Adapter) FetchTasks(ctx context.Context, id helpdesk.Identity, filter helpdesk.TaskFilter) (helpdesk.AggregateResult[helpdesk.Task], error) {
	var result helpdesk.AggregateResult[helpdesk.Task]

	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return result, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	var resp getTasksResponse
	req := getTasksRequest{NS: a.client.namespace, Login: id.Username, State: filter.Status}
	if err := a.client.call(ctx, "GetTasks", req, token, &resp); err != nil {
		return result, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.Tasks == nil {
		return result, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("GetTasks response has no tasks element"))
	}

	result.Items = make([]helpdesk.Task, 0, len(resp.Tasks.Items))
	for _, wt := range resp.Tasks.Items {
		result.Items = append(result.Items, a.mapTask(wt))
	}
	return result, nil
}

func (a *Adapter) FetchTaskDetail(ctx context.Context, id helpdesk.Identity, ref helpdesk.TaskRef) (*helpdesk.Task, error) {
	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	var resp getTaskResponse
	if err := a.client.call(ctx, "GetTask", getTaskRequest{NS: a.client.namespace, Login: id.Username, ID: ref.ID}, token, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.Task == nil {
		return nil, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("GetTask response has no task element for id %s", ref.ID))
	}

	task := a.mapTask(*resp.Task)
	return &task, nil
}

func (a *Adapter) FetchFile(ctx context.Context, id helpdesk.Identity, ref helpdesk.FileRef) (*helpdesk.TicketFile, error) {
	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	var resp getFileResponse
	req := getFileRequest{NS: a.client.namespace, Login: id.Username, ID: ref.ID, Name: ref.Name}
	if err := a.client.call(ctx, "GetFile", req, token, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.File == nil || resp.File.Content == "" {
		return nil, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("GetFile response has no content for id %s", ref.ID))
	}

	body, err := base64.StdEncoding.DecodeString(resp.File.Content)
	if err != nil {
		return nil, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("GetFile content is not valid base64: %w", err))
	}

	file := a.mapFile(*resp.File)
	file.Body = body
	return &file, nil
}

func (a *Adapter) SubmitTask(ctx context.Context, id helpdesk.Identity, task helpdesk.NewTask, attachments []helpdesk.Attachment) (*helpdesk.TaskCreated, error) {
	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	req := createTaskRequest{
		NS:          a.client.namespace,
		Login:       id.Username,
		RouteCode:   task.RouteCode,
		ServiceCode: task.ServiceCode,
		Name:        task.Subject,
		Content:     task.Body,
		Files:       encodeAttachments(attachments),
	}
	var resp createTaskResponse
	if err := a.client.call(ctx, "CreateTask", req, token, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.ID == "" {
		return nil, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("CreateTask response has no id"))
	}

	return &helpdesk.TaskCreated{Origin: a.Origin(), ID: resp.ID, Code: resp.Number}, nil
}

func (a *Adapter) EditTask(ctx context.Context, id helpdesk.Identity, edit helpdesk.TaskEdit, attachments []helpdesk.Attachment) (*helpdesk.Task, error) {
	token, err := a.client.login(ctx, id.Username, id.Secret)
	if err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}

	req := updateTaskRequest{
		NS:      a.client.namespace,
		Login:   id.Username,
		ID:      edit.ID,
		Name:    edit.Subject,
		Content: edit.Body,
		State:   edit.Status,
		Files:   encodeAttachments(attachments),
	}
	var resp updateTaskResponse
	if err := a.client.call(ctx, "UpdateTask", req, token, &resp); err != nil {
		return nil, helpdesk.ClassifyBackendError(a.Origin(), err)
	}
	if resp.Task == nil {
		return nil, helpdesk.NewBackendError(a.Origin(), helpdesk.ErrBackendEmptyResult,
			fmt.Errorf("UpdateTask response has no task element for id %s", edit.ID))
	}

	task := a.mapTask(*resp.Task)
	return &task, nil
}

// --- wire to domain mapping ---

func (a *Adapter) mapRoute(wr wireRoute) helpdesk.Route {
	route := helpdesk.Route{
		Origin:      a.Origin(),
		Code:        wr.Code,
		Name:        wr.Name,
		Description: htmltext.Strip(wr.Note),
		Avatar:      wr.Image,
		Services:    make([]helpdesk.Service, 0, len(wr.Services)),
	}
	for _, ws := range wr.Services {
		route.Services = append(route.Services, helpdesk.Service{
			Origin:      a.Origin(),
			Code:        ws.Code,
			Name:        ws.Name,
			Description: htmltext.Strip(ws.Note),
			RouteCode:   wr.Code,
			Avatar:      ws.Image,
		})
	}
	return route
}

func (a *Adapter) mapTask(wt wireTask) helpdesk.Task {
	body := htmltext.Strip(wt.Content)
	task := helpdesk.Task{
		Origin:      a.Origin(),
		ID:          wt.ID,
		Code:        wt.Number,
		Subject:     wt.Name,
		Body:        body,
		SmallBody:   helpdesk.SmallBodyOf(wt.Content),
		Status:      wt.State,
		CreatedDate: parseDate(wt.CreationDate),
		TimeoutDate: parseDate(wt.Deadline),
		EndDate:     parseDate(wt.CloseDate),
		Initiator:   mapPerson(wt.Author),
		Executor:    mapPerson(wt.Executor),
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
			Origin:      a.Origin(),
			Code:        wt.Service.Code,
			Name:        wt.Service.Name,
			Description: htmltext.Strip(wt.Service.Note),
			RouteCode:   routeCode,
			Avatar:      wt.Service.Image,
		}
	}
	for _, wf := range wt.Files {
		task.Files = append(task.Files, a.mapFile(wf))
	}
	for _, wc := range wt.Comments {
		task.Comments = append(task.Comments, a.mapComment(wc))
	}
	return task
}

func (a *Adapter) mapFile(wf wireFile) helpdesk.TicketFile {
	return helpdesk.TicketFile{
		Origin: a.Origin(),
		ID:     wf.ID,
		Name:   wf.Name,
		Ext:    wf.Ext,
		Mime:   wf.Mime,
	}
}

func (a *Adapter) mapComment(wc wireComment) helpdesk.Comment {
	comment := helpdesk.Comment{
		Origin:      a.Origin(),
		Date:        parseDate(wc.Date),
		AuthorLogin: wc.Author,
		Body:        htmltext.Strip(wc.Content),
		Code:        wc.Code,
		ParentCode:  wc.ParentCode,
	}
	for _, wf := range wc.Files {
		comment.Files = append(comment.Files, a.mapFile(wf))
	}
	return comment
}

// mapPerson splits the legacy compound orgUnit ("department, division") on
// the first comma.
func mapPerson(wp wirePerson) helpdesk.Person {
	person := helpdesk.Person{
		Login:    wp.Login,
		FullName: wp.FullName,
		Email:    wp.Email,
		Phone:    wp.Phone,
	}
	department, division, found := strings.Cut(wp.OrgUnit, ",")
	person.Department = strings.TrimSpace(department)
	if found {
		person.Division = strings.TrimSpace(division)
	}
	return person
}

// parseDate maps the desk's sentinel "empty date" values to nil. The desk
// reports both the year-one zero value and 1900-01-01 depending on the
// record's age.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	if t.Year() <= 1900 {
		return nil
	}
	t = t.UTC()
	return &t
}

func encodeAttachments(attachments []helpdesk.Attachment) []wireAttachment {
	out := make([]wireAttachment, 0, len(attachments))
	for _, att := range attachments {
		out = append(out, wireAttachment{
			Name:    att.Name,
			Content: base64.StdEncoding.EncodeToString(att.Body),
		})
	}
	return out
}
