package notify

import (
	"sync"
	"time"
)

// Action names a change to a project's files.
type Action string

const (
	ActionFileAdded   Action = "FileAdded"
	ActionFileDeleted Action = "FileDeleted"
	ActionTagsCleared Action = "TagsCleared"
)

// Event is delivered to every subscriber of a project.
type Event struct {
	ProjectID string    `json:"project_id"`
	Action    Action    `json:"action"`
	At        time.Time `json:"at"`
}

// Notifier publishes project events.
type Notifier interface {
	Publish(projectID string, action Action)
}

// Hub fans events out to per-project subscribers. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
	closed bool
}

type subscriber struct {
	ch   chan Event
	once sync.Once
}

// NewHub creates a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

var _ Notifier = (*Hub)(nil)

// Subscribe registers for a project's events. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(projectID string) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.ch)
		return s.ch, func() {}
	}
	set, ok := h.subs[projectID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[projectID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[projectID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, projectID)
			}
		}
		h.mu.Unlock()
		s.once.Do(func() { close(s.ch) })
	}
	return s.ch, cancel
}

// Publish sends an event to the project's current subscribers.
func (h *Hub) Publish(projectID string, action Action) {
	ev := Event{ProjectID: projectID, Action: action, At: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[projectID] {
		select {
		case s.ch <- ev:
		default:
		}
	}
}

// Subscribers reports how many subscribers a project has.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[projectID])
}

// Close ends every subscription. Later subscribers get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, set := range h.subs {
		for s := range set {
			s.once.Do(func() { close(s.ch) })
		}
		delete(h.subs, id)
	}
}
