package live

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/3-lines-studio/starter/internal/component"
)

// Session is one mounted root component. All access to the component goes
// through the session mutex, so a session may be rendered by the page handler
// and driven by its socket without further locking.
type Session struct {
	id      string
	created time.Time

	mu    sync.Mutex
	root  component.Component
	dirty atomic.Bool
}

func (s *Session) ID() string {
	return s.id
}

// ReRender marks the session for a render once the current event is handled.
func (s *Session) ReRender() {
	s.dirty.Store(true)
}

func (s *Session) Render(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Render(w)
}

// Dispatch delivers a browser event to the root component. When the component
// asked for a re-render, the fresh markup is returned with changed set.
func (s *Session) Dispatch(event string) (markup []byte, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handler, ok := s.root.(component.EventHandler)
	if !ok {
		return nil, false, component.ErrUnknownEvent
	}

	s.dirty.Store(false)
	if err := handler.HandleEvent(event); err != nil {
		return nil, false, err
	}
	if !s.dirty.Swap(false) {
		return nil, false, nil
	}

	var buf bytes.Buffer
	if err := s.root.Render(&buf); err != nil {
		return nil, true, err
	}
	return buf.Bytes(), true, nil
}
