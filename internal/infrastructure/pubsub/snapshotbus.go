// Package pubsub carries refreshed helpdesk snapshots between service
// instances over Redis Pub/Sub. The contract is "latest snapshot": every
// publish holds the full replacement value, never a diff, so subscribers can
// always render the newest message alone.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deskhub/internal/shared/goroutine"
	"deskhub/internal/shared/logger"
)

// TopicRoutesUpdated and TopicTasksUpdated name the per-user channels the
// refresh engine publishes on.
func TopicRoutesUpdated(userID uint) string {
	return fmt.Sprintf("deskhub:helpdesk:routes-updated:%d", userID)
}

func TopicTasksUpdated(userID uint) string {
	return fmt.Sprintf("deskhub:helpdesk:tasks-updated:%d", userID)
}

// SnapshotBus is the process-wide publish/subscribe channel. It is
// constructed once at startup and injected; its lifecycle is the process
// lifetime.
type SnapshotBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewSnapshotBus(client *redis.Client, log logger.Interface) *SnapshotBus {
	return &SnapshotBus{
		client: client,
		logger: log.Named("snapshot-bus"),
	}
}

// Publish JSON-encodes payload and publishes it on topic. Publishing to a
// topic with no subscribers is a no-op on the Redis side and not an error.
func (b *SnapshotBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", topic, err)
	}

	if err := b.client.Publish(ctx, topic, data).Err(); err != nil {
		b.logger.Errorw("failed to publish snapshot", "topic", topic, "error", err)
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	b.logger.Debugw("snapshot published", "topic", topic, "bytes", len(data))
	return nil
}

// Subscribe blocks delivering raw snapshot payloads for topic to handler
// until ctx is cancelled, reconnecting with exponential backoff if the
// subscription drops. Handlers run panic-guarded but synchronously, so a
// slow handler applies backpressure to its own topic only.
func (b *SnapshotBus) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.consume(ctx, topic, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("snapshot subscription disconnected, reconnecting",
			"topic", topic,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *SnapshotBus) consume(ctx context.Context, topic string, handler func(payload []byte)) error {
	sub := b.client.Subscribe(ctx, topic)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	b.logger.Debugw("subscribed to snapshot topic", "topic", topic)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.dispatch(topic, msg.Payload, handler)
		}
	}
}

// dispatch runs handler under a recover so one bad payload cannot take the
// subscription loop down.
func (b *SnapshotBus) dispatch(topic, payload string, handler func(payload []byte)) {
	done := make(chan struct{})
	goroutine.SafeGo(b.logger, "snapshot-handler-"+topic, func() {
		defer close(done)
		handler([]byte(payload))
	})
	<-done
}
