// Package catalog owns the merged in-memory course catalog.
//
// A single owner goroutine holds the bookmark set and applies every mutation;
// other goroutines submit work to it over a channel. The current Snapshot is
// published atomically, so reads never wait on the owner.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"coursereview/internal/domain"
	"coursereview/internal/errors"
	"coursereview/internal/gateway"
	"coursereview/internal/httpx"
	"coursereview/internal/logging"
	"coursereview/internal/store"
)

const opRefresh = "refresh catalog"

type Catalog struct {
	gw        gateway.Gateway
	bookmarks *store.BookmarkStore
	seed      []domain.Course
	opts      options

	current atomic.Pointer[Snapshot]
	group   singleflight.Group

	ops       chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	set        domain.BookmarkSet
	generation uint64
	subs       map[int]*subscriber
	nextSub    int
}

// New builds a catalog from the seed dataset and the persisted bookmarks and
// publishes it as generation 1. It fails only if the bookmark store cannot be
// read.
//
// When no bookmarks were ever saved, the seed records' IsBookmarked flags
// become the initial set and are persisted.
func New(gw gateway.Gateway, bookmarks *store.BookmarkStore, seed []domain.Course, opts ...Option) (*Catalog, error) {
	o := defaultOptions(*logging.Default())
	for _, opt := range opts {
		opt(&o)
	}
	if bookmarks == nil {
		bookmarks = store.NewBookmarkStore(store.NewMemoryKV())
	}

	set, err := initialBookmarks(bookmarks, seed, o.logger)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		gw:        gw,
		bookmarks: bookmarks,
		seed:      append([]domain.Course(nil), seed...),
		opts:      o,
		ops:       make(chan func()),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		set:       set,
		subs:      make(map[int]*subscriber),
	}
	c.publish(initialCourses(c.seed, set))
	go c.loop()

	return c, nil
}

func initialBookmarks(bs *store.BookmarkStore, seed []domain.Course, logger zerolog.Logger) (domain.BookmarkSet, error) {
	exists, err := bs.Exists()
	if err != nil {
		return nil, err
	}
	if exists {
		return bs.Load()
	}

	set := domain.NewBookmarkSet()
	for _, s := range seed {
		if s.IsBookmarked {
			set.Add(s.Code)
		}
	}
	if err := bs.Save(set); err != nil {
		logger.Warn().Err(err).Msg("Could not persist default bookmarks")
	}
	return set, nil
}

func (c *Catalog) loop() {
	defer close(c.stopped)
	for {
		select {
		case op := <-c.ops:
			op()
		case <-c.done:
			return
		}
	}
}

// do runs fn on the owner goroutine and waits for it.
func (c *Catalog) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.ops <- func() { defer close(finished); fn() }:
	case <-c.done:
		return errors.ErrClosed
	}
	<-finished
	return nil
}

// Close stops the owner goroutine. Snapshot keeps working afterwards;
// mutations return errors.ErrClosed.
func (c *Catalog) Close() {
	c.closeOnce.Do(func() { close(c.done) })
	<-c.stopped
}

// Snapshot returns the current snapshot without blocking.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Courses, Len, Generation, Lookup, Bookmarked and Search read the current
// snapshot.

func (c *Catalog) Courses() []domain.Course { return c.Snapshot().Courses() }

func (c *Catalog) Len() int { return c.Snapshot().Len() }

func (c *Catalog) Generation() uint64 { return c.Snapshot().Generation() }

func (c *Catalog) Lookup(code string) (domain.Course, bool) { return c.Snapshot().Lookup(code) }

func (c *Catalog) Bookmarked() []domain.Course { return c.Snapshot().Bookmarked() }

func (c *Catalog) Search(query string) []domain.Course { return c.Snapshot().Search(query) }

// Refresh fetches the remote catalog and publishes the merged result. On
// failure the current snapshot is kept and a *errors.SyncError is returned.
//
// Concurrent calls share one refresh. The shared fetch is bounded by the
// gateway timeout rather than by any one caller's ctx; ctx only bounds how
// long this caller waits.
//
// Subscribers are notified after the shared refresh has finished, so they may
// call Refresh or ToggleBookmark themselves.
func (c *Catalog) Refresh(ctx context.Context) error {
	ch := c.group.DoChan("refresh", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err == nil {
			res.Val.(published).deliver()
		}
		return res.Err
	case <-ctx.Done():
		// Still notify subscribers once the refresh lands.
		go func() {
			if res := <-ch; res.Err == nil {
				res.Val.(published).deliver()
			}
		}()
		return errors.Classify(opRefresh, "", ctx.Err())
	}
}

// published is a snapshot together with the subscribers to notify of it.
type published struct {
	snap   *Snapshot
	notify []*subscriber
}

func (p published) deliver() { deliver(p.notify, p.snap) }

func (c *Catalog) refresh(ctx context.Context) (published, error) {
	var (
		remote  []gateway.RemoteCourse
		reviews []gateway.RemoteReview
	)

	err := httpx.Retry(ctx, c.opts.retry, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			cs, err := c.gw.FetchCourses(gctx)
			if err != nil {
				return err
			}
			remote = cs
			return nil
		})
		if c.opts.countReviews {
			g.Go(func() error {
				rs, err := c.gw.FetchAllReviews(gctx)
				if err != nil {
					return err
				}
				reviews = rs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return errors.Classify(opRefresh, "", err)
		}
		return nil
	})
	if err != nil {
		ev := c.opts.logger.Warn().Err(err)
		if kind, ok := errors.KindOf(err); ok {
			ev = ev.Str("kind", kind.String())
		}
		ev.Bool("retryable", errors.IsRetryable(err)).
			Uint64("generation", c.Generation()).
			Msg("Catalog refresh failed, keeping current snapshot")
		return published{}, err
	}

	var (
		snap    *Snapshot
		changes Changes
		notify  []*subscriber
	)
	if err := c.do(func() {
		prev := c.current.Load()
		res := Merge(MergeInput{
			Remote:       remote,
			Reviews:      reviews,
			CountReviews: c.opts.countReviews,
			Seed:         c.seed,
			Bookmarks:    c.set,
			Policy:       c.opts.policy,
		})
		for _, code := range res.Duplicates {
			c.opts.logger.Warn().Str("course_code", code).Msg("Duplicate remote course dropped")
		}
		changes = Diff(prev.courses, res.Courses)
		snap = c.publish(res.Courses)
		notify = c.subscribers()
	}); err != nil {
		return published{}, err
	}

	ev := c.opts.logger.Info().
		Uint64("generation", snap.Generation()).
		Int("courses", snap.Len()).
		Int("remote", len(remote))
	if !changes.Empty() {
		ev = ev.Int("added", len(changes.Added)).
			Int("updated", len(changes.Updated)).
			Int("removed", len(changes.Removed))
	}
	ev.Msg("Catalog refreshed")
	return published{snap: snap, notify: notify}, nil
}

// ToggleBookmark flips the bookmark for code and persists the whole set. It
// is a no-op when code is not in the current snapshot. If saving fails the
// change is rolled back and the error returned.
func (c *Catalog) ToggleBookmark(code string) error {
	var (
		snap    *Snapshot
		notify  []*subscriber
		saveErr error
	)
	err := c.do(func() {
		cur := c.current.Load()
		i := cur.index(code)
		if i < 0 {
			return
		}
		course := cur.courses[i]

		next := c.set.Clone()
		on := next.Toggle(course.Code)
		if saveErr = c.bookmarks.Save(next); saveErr != nil {
			return
		}
		c.set = next

		c.generation++
		snap = cur.withBookmark(c.generation, i, on)
		c.current.Store(snap)
		notify = c.subscribers()

		c.opts.logger.Debug().
			Str("course_code", course.Code).
			Bool("bookmarked", on).
			Uint64("generation", snap.Generation()).
			Msg("Bookmark toggled")
	})
	if err != nil {
		return err
	}
	if saveErr != nil {
		c.opts.logger.Error().Err(saveErr).Str("course_code", code).Msg("Saving bookmarks failed, toggle rolled back")
		return saveErr
	}
	if snap != nil {
		deliver(notify, snap)
	}
	return nil
}

// BookmarkSet returns a copy of the current bookmark set.
func (c *Catalog) BookmarkSet() domain.BookmarkSet {
	var set domain.BookmarkSet
	if err := c.do(func() { set = c.set.Clone() }); err != nil {
		return domain.NewBookmarkSet()
	}
	return set
}

// publish stores a new snapshot with the next generation. Loop goroutine or
// constructor only.
func (c *Catalog) publish(courses []domain.Course) *Snapshot {
	c.generation++
	snap := newSnapshot(c.generation, courses)
	c.current.Store(snap)
	return snap
}
