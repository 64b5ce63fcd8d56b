// Package scheduler runs the keep-warm refresh jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"deskhub/internal/shared/logger"
)

// KeepWarm owns one repeating job per cache key. Jobs run in singleton mode
// so a slow refresh is never overlapped by its own next tick, and each job
// is individually removable when its key goes idle. A single gocron
// scheduler instance backs all keys.
type KeepWarm struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	logger    logger.Interface

	mu   sync.Mutex
	jobs map[string]uuid.UUID
}

// NewKeepWarm creates the scheduler; call Start once wiring is complete and
// Shutdown on process teardown.
func NewKeepWarm(interval time.Duration, log logger.Interface) (*KeepWarm, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &KeepWarm{
		scheduler: s,
		interval:  interval,
		logger:    log.Named("keep-warm"),
		jobs:      make(map[string]uuid.UUID),
	}, nil
}

func (k *KeepWarm) Start() {
	k.scheduler.Start()
}

func (k *KeepWarm) Shutdown() error {
	return k.scheduler.Shutdown()
}

// Ensure arms the repeating refresh job for key if it is not armed already.
// fn receives a context bounded by one interval; the first fire happens one
// interval after arming (the caller has just refreshed the key itself).
func (k *KeepWarm) Ensure(key string, fn func(ctx context.Context)) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, armed := k.jobs[key]; armed {
		return
	}

	job, err := k.scheduler.NewJob(
		gocron.DurationJob(k.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), k.interval)
			defer cancel()
			fn(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("keep-warm-"+key),
	)
	if err != nil {
		k.logger.Errorw("failed to arm keep-warm job", "key", key, "error", err)
		return
	}

	k.jobs[key] = job.ID()
	k.logger.Debugw("keep-warm job armed", "key", key, "interval", k.interval)
}

// Drop disarms the job for key. Dropping an unarmed key is a no-op.
func (k *KeepWarm) Drop(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	id, armed := k.jobs[key]
	if !armed {
		return
	}
	delete(k.jobs, key)

	if err := k.scheduler.RemoveJob(id); err != nil {
		k.logger.Warnw("failed to remove keep-warm job", "key", key, "error", err)
		return
	}
	k.logger.Debugw("keep-warm job dropped", "key", key)
}

// Armed reports whether key currently has a keep-warm job.
func (k *KeepWarm) Armed(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, armed := k.jobs[key]
	return armed
}
