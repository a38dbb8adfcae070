package component

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var ErrImpureRender = errors.New("render is not pure: consecutive renders differ")

type strict struct {
	inner Component
}

// Strict wraps c so that every render runs twice and the outputs are compared.
// It is meant for development builds, where a render that depends on hidden
// state or side effects should fail loudly.
func Strict(c Component) Component {
	return &strict{inner: c}
}

func (s *strict) Render(w io.Writer) error {
	var first, second bytes.Buffer
	if err := s.inner.Render(&first); err != nil {
		return err
	}
	if err := s.inner.Render(&second); err != nil {
		return err
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		return fmt.Errorf("%w (%d bytes, then %d bytes)", ErrImpureRender, first.Len(), second.Len())
	}
	_, err := w.Write(first.Bytes())
	return err
}

func (s *strict) HandleEvent(name string) error {
	handler, ok := s.inner.(EventHandler)
	if !ok {
		return ErrUnknownEvent
	}
	return handler.HandleEvent(name)
}

func (s *strict) SetRenderer(r Renderer) {
	if a, ok := s.inner.(Attachable); ok {
		a.SetRenderer(r)
	}
}
