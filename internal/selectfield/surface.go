package selectfield

import (
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
)

// Handler receives events published on a Surface.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Surface is the region a Field renders into. It holds the last rendered
// content and lets any number of listeners observe the notifications of
// the field mounted on it.
type Surface struct {
	id string

	mu       sync.RWMutex
	content  string
	owner    string
	nextID   uint64
	handlers map[EventKind][]subscription
	logger   *slog.Logger
}

// NewSurface creates an empty surface.
func NewSurface(id string) *Surface {
	return &Surface{
		id:       id,
		handlers: make(map[EventKind][]subscription),
	}
}

// ID returns the surface identifier.
func (s *Surface) ID() string {
	return s.id
}

// Content returns what the mounted field rendered last. Empty before mount
// and after the field is destroyed.
func (s *Surface) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Owner returns the ID of the field currently mounted on the surface.
func (s *Surface) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// SetLogger sets the logger used to report panicking handlers.
func (s *Surface) SetLogger(l *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Subscribe registers handler for events of the given kind. The returned
// function removes the registration; calling it more than once is safe.
func (s *Surface) Subscribe(kind EventKind, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.handlers[kind] = append(s.handlers[kind], subscription{id: id, handler: handler})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		subs := s.handlers[kind]
		for i, sub := range subs {
			if sub.id == id {
				s.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of handlers registered for kind.
func (s *Surface) Subscribers(kind EventKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.handlers[kind])
}

// mount hands the surface to the field with the given ID and replaces
// whatever was rendered before.
func (s *Surface) mount(owner, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	s.content = content
}

// replace updates the content if owner still holds the surface.
func (s *Surface) replace(owner, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner {
		return
	}
	s.content = content
}

// release empties the surface if owner still holds it.
func (s *Surface) release(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner {
		return
	}
	s.owner = ""
	s.content = ""
}

// publish delivers e to the handlers registered for its kind, in
// registration order. Handlers run synchronously; a panicking handler is
// logged and does not stop the others.
func (s *Surface) publish(e Event) {
	s.mu.RLock()
	subs := make([]subscription, len(s.handlers[e.Kind()]))
	copy(subs, s.handlers[e.Kind()])
	logger := s.logger
	s.mu.RUnlock()

	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("surface handler panicked",
						"surface", s.id,
						"event", string(e.Kind()),
						"panic", r,
						"stack", string(debug.Stack()))
				}
			}()
			sub.handler(e)
		}()
	}
}

// Page is a set of surfaces addressable by selector, standing in for the
// document a field is mounted into.
type Page struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{surfaces: make(map[string]*Surface)}
}

// Add creates the surface with the given id, or returns the existing one.
func (p *Page) Add(id string) *Surface {
	id = strings.TrimPrefix(id, "#")

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.surfaces[id]; ok {
		return s
	}
	s := NewSurface(id)
	p.surfaces[id] = s
	return s
}

// Lookup resolves a selector of the form "#id" or "id".
func (p *Page) Lookup(selector string) (*Surface, bool) {
	id := strings.TrimPrefix(strings.TrimSpace(selector), "#")
	if id == "" {
		return nil, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.surfaces[id]
	return s, ok
}
