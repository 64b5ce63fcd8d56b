package handlers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"deskhub/internal/infrastructure/pubsub"
	"deskhub/internal/interfaces/http/middleware"
	"deskhub/internal/shared/goroutine"
	"deskhub/internal/shared/logger"
)

// StreamHandler forwards refreshed snapshots to clients over server-sent
// events. In the full portal the GraphQL subscription layer plays this role;
// this endpoint serves the same bus topics directly.
type StreamHandler struct {
	bus    *pubsub.SnapshotBus
	logger logger.Interface
}

func NewStreamHandler(bus *pubsub.SnapshotBus, log logger.Interface) *StreamHandler {
	return &StreamHandler{
		bus:    bus,
		logger: log.Named("stream-handler"),
	}
}

// Tasks streams every tasks-updated snapshot for the calling user until the
// client disconnects.
func (h *StreamHandler) Tasks(c *gin.Context) {
	h.stream(c, pubsub.TopicTasksUpdated(middleware.IdentityFrom(c).UserID))
}

// Routes streams every routes-updated snapshot for the calling user.
func (h *StreamHandler) Routes(c *gin.Context) {
	h.stream(c, pubsub.TopicRoutesUpdated(middleware.IdentityFrom(c).UserID))
}

func (h *StreamHandler) stream(c *gin.Context, topic string) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snapshots := make(chan json.RawMessage, 8)
	goroutine.SafeGo(h.logger, "sse-subscribe-"+topic, func() {
		defer close(snapshots)
		_ = h.bus.Subscribe(ctx, topic, func(payload []byte) {
			select {
			case snapshots <- json.RawMessage(payload):
			case <-ctx.Done():
			}
		})
	})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-snapshots
		if !ok {
			return false
		}
		c.SSEvent("snapshot", snapshot)
		return true
	})
}
