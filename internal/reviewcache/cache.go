// Package reviewcache loads per-course reviews on demand and tracks each
// course's load state. Concurrent loads of the same course share one fetch.
package reviewcache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"coursereview/internal/concurrency"
	"coursereview/internal/domain"
	"coursereview/internal/errors"
	"coursereview/internal/gateway"
	"coursereview/internal/logging"
	"coursereview/internal/mappers"
)

// Fetcher is the part of gateway.Gateway the cache needs.
type Fetcher interface {
	FetchReviews(ctx context.Context, courseID int64) ([]gateway.RemoteReview, error)
}

var _ Fetcher = (gateway.Gateway)(nil)

// Cache holds one State per course id.
type Cache struct {
	fetcher Fetcher
	entries *gocache.Cache
	group   singleflight.Group
	logger  zerolog.Logger
	workers int

	mu       sync.Mutex
	epochs   map[int64]uint64 // bumped by Invalidate
	onChange []func(State)
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for state transitions.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithTTL expires loaded and failed entries after d. An expired entry reads
// as StatusIdle. The default keeps entries until invalidated.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		cleanup := time.Duration(0)
		if d > 0 {
			cleanup = 2 * d
		}
		c.entries = gocache.New(d, cleanup)
	}
}

// WithPrefetchWorkers bounds the parallelism of Prefetch and LoadMany.
func WithPrefetchWorkers(n int) Option {
	return func(c *Cache) { c.workers = n }
}

func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		entries: gocache.New(gocache.NoExpiration, 0),
		logger:  *logging.Default(),
		workers: concurrency.DefaultWorkers,
		epochs:  make(map[int64]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to be called after every state transition. fn runs
// on the goroutine that caused the transition.
func (c *Cache) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = append(c.onChange, fn)
}

// State returns the current state for a course.
func (c *Cache) State(courseID int64) State {
	if v, ok := c.entries.Get(key(courseID)); ok {
		return v.(State)
	}
	return State{CourseID: courseID, Status: StatusIdle}
}

// Reviews returns the loaded reviews of a course, or nil.
func (c *Cache) Reviews(courseID int64) []domain.Review {
	st := c.State(courseID)
	if st.Status != StatusLoaded {
		return nil
	}
	return st.Reviews
}

// Load fetches the reviews for a course unless they are already loaded and
// non-empty. A load already in flight for the same course is joined rather
// than repeated, and every caller gets its outcome.
//
// The fetch itself is not tied to ctx, so one caller giving up does not fail
// the others; ctx only bounds how long this caller waits.
func (c *Cache) Load(ctx context.Context, courseID int64) error {
	if c.loaded(courseID) {
		return nil
	}

	ch := c.group.DoChan(key(courseID), func() (any, error) {
		return nil, c.fetch(context.WithoutCancel(ctx), courseID)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return errors.Classify("load reviews", "", ctx.Err())
	}
}

func (c *Cache) fetch(ctx context.Context, courseID int64) error {
	if c.loaded(courseID) {
		return nil
	}

	c.mu.Lock()
	epoch := c.epochs[courseID]
	c.mu.Unlock()

	c.set(epoch, State{CourseID: courseID, Status: StatusLoading})

	remote, err := c.fetcher.FetchReviews(ctx, courseID)
	if err != nil {
		ev := c.logger.Warn().Err(err).Int64("course_id", courseID)
		if kind, ok := errors.KindOf(err); ok {
			ev = ev.Str("kind", kind.String())
		}
		ev.Msg("Review load failed")

		c.set(epoch, State{CourseID: courseID, Status: StatusFailed, Err: err})
		return err
	}

	reviews := mappers.ReviewsFromRemote(remote)
	c.logger.Debug().Int64("course_id", courseID).Int("reviews", len(reviews)).Msg("Reviews loaded")
	c.set(epoch, State{CourseID: courseID, Status: StatusLoaded, Reviews: reviews})
	return nil
}

// Invalidate forgets a course's reviews so the next Load fetches again. A
// fetch already in flight still completes for its callers, but its result is
// not stored.
func (c *Cache) Invalidate(courseID int64) {
	c.mu.Lock()
	c.epochs[courseID]++
	c.entries.Delete(key(courseID))
	c.group.Forget(key(courseID))
	listeners := append([]func(State){}, c.onChange...)
	c.mu.Unlock()

	idle := State{CourseID: courseID, Status: StatusIdle}
	for _, fn := range listeners {
		fn(idle)
	}
}

// Prefetch loads many courses on a bounded pool. Failures are isolated per
// course and returned in completion order.
func (c *Cache) Prefetch(ctx context.Context, courseIDs []int64) []error {
	return concurrency.ForEach(ctx, courseIDs, concurrency.Options{MaxWorkers: c.workers},
		func(ctx context.Context, _ int, id int64) error {
			return c.Load(ctx, id)
		})
}

// LoadMany loads many courses on a bounded pool and returns their states in
// input order.
func (c *Cache) LoadMany(ctx context.Context, courseIDs []int64) []State {
	states, _ := concurrency.Map(ctx, courseIDs, concurrency.Options{MaxWorkers: c.workers},
		func(ctx context.Context, _ int, id int64) (State, error) {
			err := c.Load(ctx, id)
			st := c.State(id)
			if err != nil && st.Status != StatusFailed {
				// This caller stopped waiting; report that rather than a
				// stale state.
				st = State{CourseID: id, Status: StatusFailed, Err: err}
			}
			return st, nil
		})
	for i, st := range states {
		if st.Status == "" {
			states[i] = State{CourseID: courseIDs[i], Status: StatusFailed, Err: errors.Classify("load reviews", "", ctx.Err())}
		}
	}
	return states
}

func (c *Cache) loaded(courseID int64) bool {
	st := c.State(courseID)
	return st.Status == StatusLoaded && len(st.Reviews) > 0
}

// set stores st unless the entry was invalidated since epoch was read, then
// notifies listeners. A finished state releases the single-flight key first,
// so a listener may call Load again for the same course. Loading entries
// never expire: an in-flight fetch must not read as Idle.
func (c *Cache) set(epoch uint64, st State) {
	c.mu.Lock()
	if c.epochs[st.CourseID] != epoch {
		c.mu.Unlock()
		return
	}
	if st.Status == StatusLoading {
		c.entries.Set(key(st.CourseID), st, gocache.NoExpiration)
	} else {
		c.entries.SetDefault(key(st.CourseID), st)
	}
	listeners := append([]func(State){}, c.onChange...)
	c.mu.Unlock()

	if st.Status.IsFinished() {
		c.group.Forget(key(st.CourseID))
	}

	c.logger.Trace().Int64("course_id", st.CourseID).Str("status", st.Status.String()).Msg("Review state changed")
	for _, fn := range listeners {
		fn(st)
	}
}

func key(courseID int64) string {
	return strconv.FormatInt(courseID, 10)
}
