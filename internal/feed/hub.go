// Package feed fans the league changes out to the subscribers, such as the open web pages.
package feed

import (
	"slices"
	"sync"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/util/idgen"
)

// Subscription collects the changes until they are taken. Repeated changes of the same entity
// are merged.
type Subscription struct {
	ch      chan struct{}
	mu      sync.Mutex
	pending map[league.Change]struct{}
	order   []league.Change
	closed  bool
}

// C is signalled when there are pending changes. It is closed when the hub shuts down.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Take returns the pending changes in order of arrival and forgets them.
func (s *Subscription) Take() []league.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.order
	s.order = nil
	clear(s.pending)
	return res
}

func (s *Subscription) push(c league.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.pending[c]; !ok {
		s.pending[c] = struct{}{}
		s.order = append(s.order, c)
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*Subscription
	stopped bool
}

var _ league.ChangeListener = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscription)}
}

func (h *Hub) Subscribe() (*Subscription, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Subscription{
		ch:      make(chan struct{}, 1),
		pending: make(map[league.Change]struct{}),
	}
	if h.stopped {
		s.close()
		return s, func() {}
	}
	id := idgen.ID()
	if _, ok := h.subs[id]; ok {
		panic("id collision")
	}
	h.subs[id] = s
	return s, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			sub.close()
		}
	}
}

func (h *Hub) OnChange(c league.Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		sub.push(c)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close stops the hub and closes all the subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	for _, sub := range h.subs {
		sub.close()
	}
	h.subs = nil
}

// Kinds returns the distinct entity kinds among the changes, sorted.
func Kinds(cs []league.Change) []league.EntityKind {
	var res []league.EntityKind
	for _, c := range cs {
		if !slices.Contains(res, c.Kind) {
			res = append(res, c.Kind)
		}
	}
	slices.Sort(res)
	return res
}
