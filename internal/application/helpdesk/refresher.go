package helpdesk

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domain "deskhub/internal/domain/helpdesk"
	"deskhub/internal/shared/goroutine"
	"deskhub/internal/shared/logger"
)

// Store abstracts the shared cache for one request kind.
type Store[T any] interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry[T], error)
	Set(ctx context.Context, key string, value domain.AggregateResult[T]) (*domain.CacheEntry[T], error)
}

// Publisher abstracts the snapshot bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// RefreshScheduler abstracts the keep-warm job manager.
type RefreshScheduler interface {
	Ensure(key string, fn func(ctx context.Context))
	Drop(key string)
}

// FetchFunc produces a fresh aggregate for one user.
type FetchFunc[T any] func(ctx context.Context, id domain.Identity) domain.AggregateResult[T]

// RefresherOptions wires one Refresher instance.
type RefresherOptions[T any] struct {
	// Kind names the request kind ("routes", "tasks") for logging and
	// goroutine names.
	Kind string
	// Topic maps a user to the bus topic refreshed snapshots go out on.
	Topic func(userID uint) string
	// RefreshBudget bounds one detached background refresh. Should cover
	// the backend timeout plus merge overhead.
	RefreshBudget time.Duration
	// IdleRefreshLimit is the number of consecutive keep-warm fires with no
	// intervening read after which the key's job is dropped and the cached
	// value is left to expire naturally.
	IdleRefreshLimit int

	Store     Store[T]
	Bus       Publisher
	Scheduler RefreshScheduler
	Fetch     FetchFunc[T]
	Logger    logger.Interface
}

// Refresher serves one request kind through the shared cache with
// stale-while-revalidate semantics:
//
//   - warm key: the cached value is returned immediately, never blocking on
//     any refresh, and a background refresh starts unless one is already in
//     flight for the key;
//   - cold key: the aggregate runs synchronously, deduplicated across
//     concurrent first-requests by a single-flight group (the spec leaves
//     cold-key thundering herd open; deduplication is the documented
//     choice here);
//   - every successful refresh overwrites the cache entry and publishes the
//     full replacement snapshot; cache-hit reads publish nothing.
//
// A keep-warm job per key re-runs the refresh on a fixed cadence regardless
// of read traffic, so under steady reads a value is always refreshed before
// its TTL expires. Keys with no reads for IdleRefreshLimit consecutive
// fires lose their job and expire naturally.
type Refresher[T any] struct {
	opts   RefresherOptions[T]
	logger logger.Interface
	group  singleflight.Group

	mu     sync.Mutex
	states map[string]*keyState
}

// keyState is the per-key bookkeeping. The identity snapshot is kept because
// background refreshes must authenticate with the end user's credentials;
// each read overwrites it with the freshest one.
type keyState struct {
	identity      domain.Identity
	inFlight      bool
	idleFires     int
	readSinceFire bool
}

func NewRefresher[T any](opts RefresherOptions[T]) *Refresher[T] {
	return &Refresher[T]{
		opts:   opts,
		logger: opts.Logger.Named("refresher").With("kind", opts.Kind),
		states: make(map[string]*keyState),
	}
}

// Get serves the aggregate for id. skipCache forces a synchronous fresh
// fetch for this call only; the fetched value still lands in the cache and
// on the bus.
func (r *Refresher[T]) Get(ctx context.Context, id domain.Identity, skipCache bool) (domain.AggregateResult[T], error) {
	key := cacheKey(id.UserID)
	r.touch(key, id)

	if !skipCache {
		entry, err := r.opts.Store.Get(ctx, key)
		if err != nil {
			// A broken store read degrades to a miss; the synchronous
			// fetch below still serves the caller.
			r.logger.Warnw("cache read failed, treating as miss", "key", key, "error", err)
		}
		if entry != nil {
			r.logger.Debugw("cache hit", "key", key, "age", time.Since(entry.StoredAt))
			r.startBackgroundRefresh(key)
			r.opts.Scheduler.Ensure(key, r.keepWarmFire(key))
			return entry.Value, nil
		}
	}

	var result domain.AggregateResult[T]
	if skipCache {
		// The opt-out caller asked for a fresh value; do not share a
		// single-flight round that may have started earlier.
		result = r.refresh(ctx, key, id)
	} else {
		shared, _, _ := r.group.Do(key, func() (any, error) {
			return r.refresh(ctx, key, id), nil
		})
		result = shared.(domain.AggregateResult[T])
	}

	r.opts.Scheduler.Ensure(key, r.keepWarmFire(key))
	return result, nil
}

// refresh runs one fetch-store-publish round and returns the fresh value.
// Store and publish failures are logged but do not fail the round: the
// caller still gets the aggregate it asked for.
func (r *Refresher[T]) refresh(ctx context.Context, key string, id domain.Identity) domain.AggregateResult[T] {
	result := r.opts.Fetch(ctx, id)

	if _, err := r.opts.Store.Set(ctx, key, result); err != nil {
		r.logger.Errorw("failed to store refreshed value", "key", key, "error", err)
	}

	topic := r.opts.Topic(id.UserID)
	if err := r.opts.Bus.Publish(ctx, topic, result); err != nil {
		r.logger.Errorw("failed to publish refreshed snapshot", "key", key, "topic", topic, "error", err)
	}

	r.logger.Debugw("refreshed",
		"key", key,
		"items", len(result.Items),
		"errors", len(result.Errors),
	)
	return result
}

// touch records a read: refreshes the identity snapshot and resets the idle
// counters for the key.
func (r *Refresher[T]) touch(key string, id domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.states[key]
	if st == nil {
		st = &keyState{}
		r.states[key] = st
	}
	st.identity = id
	st.readSinceFire = true
	st.idleFires = 0
}

// startBackgroundRefresh kicks a detached refresh for key unless one is
// already in flight. The refresh outlives the request that triggered it.
func (r *Refresher[T]) startBackgroundRefresh(key string) {
	r.mu.Lock()
	st := r.states[key]
	if st == nil || st.inFlight {
		r.mu.Unlock()
		return
	}
	st.inFlight = true
	id := st.identity
	r.mu.Unlock()

	goroutine.SafeGo(r.logger, "refresh-"+r.opts.Kind+"-"+key, func() {
		defer r.clearInFlight(key)
		ctx, cancel := context.WithTimeout(context.Background(), r.opts.RefreshBudget)
		defer cancel()
		r.refresh(ctx, key, id)
	})
}

// keepWarmFire is the scheduled per-key tick. It refreshes regardless of
// read traffic, skips the round if a refresh is already in flight, and
// drops the job once the key has been idle for IdleRefreshLimit fires.
func (r *Refresher[T]) keepWarmFire(key string) func(ctx context.Context) {
	return func(ctx context.Context) {
		r.mu.Lock()
		st := r.states[key]
		if st == nil {
			r.mu.Unlock()
			r.opts.Scheduler.Drop(key)
			return
		}
		if st.readSinceFire {
			st.idleFires = 0
		} else {
			st.idleFires++
			if st.idleFires >= r.opts.IdleRefreshLimit {
				delete(r.states, key)
				r.mu.Unlock()
				r.opts.Scheduler.Drop(key)
				r.logger.Debugw("key idle, dropping keep-warm job", "key", key)
				return
			}
		}
		st.readSinceFire = false
		if st.inFlight {
			r.mu.Unlock()
			return
		}
		st.inFlight = true
		id := st.identity
		r.mu.Unlock()

		defer r.clearInFlight(key)
		r.refresh(ctx, key, id)
	}
}

func (r *Refresher[T]) clearInFlight(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st := r.states[key]; st != nil {
		st.inFlight = false
	}
}

func cacheKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
