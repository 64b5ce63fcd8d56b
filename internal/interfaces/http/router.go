// Package http wires the gin router for the helpdesk facade.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appHelpdesk "deskhub/internal/application/helpdesk"
	"deskhub/internal/infrastructure/pubsub"
	"deskhub/internal/interfaces/http/handlers"
	"deskhub/internal/interfaces/http/middleware"
	"deskhub/internal/shared/logger"
)

// NewRouter builds the HTTP surface: the aggregator operations under
// /api/helpdesk plus the SSE snapshot streams.
func NewRouter(service *appHelpdesk.Service, bus *pubsub.SnapshotBus, log logger.Interface) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	helpdeskHandler := handlers.NewHelpdeskHandler(service, log)
	streamHandler := handlers.NewStreamHandler(bus, log)

	api := router.Group("/api/helpdesk")
	api.Use(middleware.Identity())
	{
		api.GET("/routes", helpdeskHandler.Routes)
		api.GET("/tasks", helpdeskHandler.Tasks)
		api.GET("/tasks/:origin/:id", helpdeskHandler.TaskDetail)
		api.GET("/files/:origin/:id", helpdeskHandler.File)
		api.POST("/tasks", helpdeskHandler.Submit)
		api.PUT("/tasks/:origin/:id", helpdeskHandler.Edit)

		api.GET("/stream/tasks", streamHandler.Tasks)
		api.GET("/stream/routes", streamHandler.Routes)
	}

	return router
}
