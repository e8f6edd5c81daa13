package catalog

import (
	"sort"
	"sync"
	"sync/atomic"
)

type subscriber struct {
	fn   func(*Snapshot)
	last atomic.Uint64
}

// send delivers snap unless a newer one already went out, so each
// subscriber sees generations in increasing order. fn runs without any lock
// held and may call back into the catalog.
func (s *subscriber) send(snap *Snapshot) {
	gen := snap.Generation()
	for {
		last := s.last.Load()
		if gen <= last {
			return
		}
		if s.last.CompareAndSwap(last, gen) {
			break
		}
	}
	s.fn(snap)
}

// Subscribe registers fn to receive every snapshot published after a
// successful Refresh or ToggleBookmark. fn runs on the goroutine that made the
// change. The returned func unsubscribes.
func (c *Catalog) Subscribe(fn func(*Snapshot)) (unsubscribe func()) {
	var id int
	if err := c.do(func() {
		id = c.nextSub
		c.nextSub++
		sub := &subscriber{fn: fn}
		sub.last.Store(c.generation)
		c.subs[id] = sub
	}); err != nil {
		return func() {}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = c.do(func() { delete(c.subs, id) })
		})
	}
}

// subscribers lists the current subscribers in registration order. Loop
// goroutine only.
func (c *Catalog) subscribers() []*subscriber {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*subscriber, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.subs[id])
	}
	return out
}

func deliver(subs []*subscriber, snap *Snapshot) {
	for _, s := range subs {
		s.send(snap)
	}
}
