package handler

import (
	"sync"

	"github.com/google/uuid"

	"github.com/routecast/service-routes/internal/application"
)

// ViewHub fans session views out to WebSocket subscribers. Each subscriber
// holds at most one pending view; a newer view replaces an unread one, since
// every view is a complete snapshot. Views are built before they are handed
// over, so they can arrive out of order: a view whose revision is not above
// the last one accepted for its session is dropped.
type ViewHub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[chan application.SessionView]struct{}
	latest map[uuid.UUID]uint64
}

// NewViewHub creates a new ViewHub.
func NewViewHub() *ViewHub {
	return &ViewHub{
		subs:   make(map[uuid.UUID]map[chan application.SessionView]struct{}),
		latest: make(map[uuid.UUID]uint64),
	}
}

// Subscribe registers a subscriber for a session. The channel is closed when
// the session goes away or cancel is called.
func (h *ViewHub) Subscribe(id uuid.UUID) (<-chan application.SessionView, func()) {
	ch := make(chan application.SessionView, 1)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan application.SessionView]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, id)
					delete(h.latest, id)
				}
			}
		})
	}
	return ch, cancel
}

// Subscribers returns how many subscribers a session has.
func (h *ViewHub) Subscribers(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}

// ViewChanged implements application.ViewListener. Sessions without
// subscribers are not tracked.
func (h *ViewHub) ViewChanged(view application.SessionView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.subs[view.SessionID]) == 0 || view.Revision <= h.latest[view.SessionID] {
		return
	}
	h.latest[view.SessionID] = view.Revision
	for ch := range h.subs[view.SessionID] {
		select {
		case ch <- view:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

// SessionClosed implements application.ViewListener.
func (h *ViewHub) SessionClosed(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		close(ch)
	}
	delete(h.subs, id)
	delete(h.latest, id)
}
