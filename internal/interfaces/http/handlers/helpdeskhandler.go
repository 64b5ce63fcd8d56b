// Package handlers exposes the helpdesk engine over HTTP for the resolver
// layer. The handlers translate transport concerns (headers, status codes)
// and delegate everything else to the application service.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appHelpdesk "deskhub/internal/application/helpdesk"
	"deskhub/internal/domain/helpdesk"
	"deskhub/internal/interfaces/http/middleware"
	"deskhub/internal/shared/logger"
)

type HelpdeskHandler struct {
	service *appHelpdesk.Service
	logger  logger.Interface
}

func NewHelpdeskHandler(service *appHelpdesk.Service, log logger.Interface) *HelpdeskHandler {
	return &HelpdeskHandler{
		service: service,
		logger:  log.Named("helpdesk-handler"),
	}
}

// skipCache honors the per-request cache opt-out.
func skipCache(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Cache-Control"), "no-cache")
}

// Routes returns the aggregated route catalog.
func (h *HelpdeskHandler) Routes(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	result, err := h.service.Routes(c.Request.Context(), id, skipCache(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Tasks returns the aggregated ticket list, optionally filtered by status.
func (h *HelpdeskHandler) Tasks(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	filter := helpdesk.TaskFilter{Status: c.Query("status")}

	result, err := h.service.Tasks(c.Request.Context(), id, filter, skipCache(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TaskDetail returns one ticket with comments and file metadata.
func (h *HelpdeskHandler) TaskDetail(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	ref := helpdesk.TaskRef{
		Origin: helpdesk.Origin(c.Param("origin")),
		ID:     c.Param("id"),
	}

	task, err := h.service.TaskDetail(c.Request.Context(), id, ref)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// File returns one attachment with its content populated.
func (h *HelpdeskHandler) File(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	ref := helpdesk.FileRef{
		Origin: helpdesk.Origin(c.Param("origin")),
		ID:     c.Param("id"),
		Name:   c.Query("name"),
	}

	file, err := h.service.File(c.Request.Context(), id, ref)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

type submitTaskRequest struct {
	Origin      string              `json:"origin" binding:"required"`
	RouteCode   string              `json:"route_code" binding:"required"`
	ServiceCode string              `json:"service_code"`
	Subject     string              `json:"subject" binding:"required,max=500"`
	Body        string              `json:"body" binding:"required"`
	Attachments []attachmentPayload `json:"attachments"`
}

type attachmentPayload struct {
	Name string `json:"name" binding:"required"`
	Body []byte `json:"body" binding:"required"`
}

// Submit creates a ticket on the backend named by the request's origin.
func (h *HelpdeskHandler) Submit(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	var req submitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Submit(c.Request.Context(), id, helpdesk.Origin(req.Origin),
		helpdesk.NewTask{
			RouteCode:   req.RouteCode,
			ServiceCode: req.ServiceCode,
			Subject:     req.Subject,
			Body:        req.Body,
		},
		mapAttachments(req.Attachments),
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type editTaskRequest struct {
	Subject     string              `json:"subject"`
	Body        string              `json:"body"`
	Status      string              `json:"status"`
	Attachments []attachmentPayload `json:"attachments"`
}

// Edit updates a ticket on the backend its origin tag names.
func (h *HelpdeskHandler) Edit(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	var req editTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Edit(c.Request.Context(), id, helpdesk.Origin(c.Param("origin")),
		helpdesk.TaskEdit{
			ID:      c.Param("id"),
			Subject: req.Subject,
			Body:    req.Body,
			Status:  req.Status,
		},
		mapAttachments(req.Attachments),
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func mapAttachments(payloads []attachmentPayload) []helpdesk.Attachment {
	attachments := make([]helpdesk.Attachment, 0, len(payloads))
	for _, p := range payloads {
		attachments = append(attachments, helpdesk.Attachment{Name: p.Name, Body: p.Body})
	}
	return attachments
}

// fail maps a classified backend error to a transport status. Multi-item
// operations never reach here with backend failures — those travel inside
// the result — so this covers single-entity operations only.
func (h *HelpdeskHandler) fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	code := helpdesk.ErrBackendUnreachable

	var be *helpdesk.BackendError
	if errors.As(err, &be) {
		code = be.Code
		switch be.Code {
		case helpdesk.ErrNotImplemented:
			status = http.StatusNotImplemented
		case helpdesk.ErrBackendMisconfigured:
			status = http.StatusBadRequest
		case helpdesk.ErrBackendEmptyResult:
			status = http.StatusNotFound
		}
	}

	h.logger.Warnw("helpdesk operation failed",
		"path", c.FullPath(),
		"code", code,
		"error", err,
	)
	c.JSON(status, gin.H{"error": string(code)})
}
