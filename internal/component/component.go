package component

import (
	"errors"
	"io"
)

var ErrUnknownEvent = errors.New("unknown event")

type Component interface {
	Render(w io.Writer) error
}

// EventHandler is implemented by components that react to browser events.
type EventHandler interface {
	HandleEvent(name string) error
}

// Renderer re-renders the mounted component tree.
type Renderer interface {
	ReRender()
}

// Attachable is implemented by components that can be bound to a renderer.
type Attachable interface {
	SetRenderer(r Renderer)
}

// ComponentBase gives an embedding component StateHasChanged.
type ComponentBase struct {
	renderer Renderer
}

func (b *ComponentBase) SetRenderer(r Renderer) {
	b.renderer = r
}

// StateHasChanged asks the attached renderer for a re-render. It is a no-op
// for a component that has not been mounted.
func (b *ComponentBase) StateHasChanged() {
	if b.renderer == nil {
		return
	}
	b.renderer.ReRender()
}
