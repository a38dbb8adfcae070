package component

import (
	"html/template"
	"io"
)

const (
	Title          = "A Go Starter App!"
	EventIncrement = "increment"
)

var counterTemplate = template.Must(template.New("counter").Parse(
	`<div style="text-align: center">` +
		`<h1>{{.Title}}</h1>` +
		`<h2 data-role="count">{{.Count}}</h2>` +
		`<h2 data-role="port">{{.Port}}</h2>` +
		`<button type="button" data-event="increment">Click</button>` +
		`</div>`))

// Counter is the root component: a title, the click count and the PORT value
// the page was built with.
type Counter struct {
	ComponentBase

	count int
	port  string
}

func NewCounter(port string) *Counter {
	return &Counter{port: port}
}

func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Increment() {
	c.count++
	c.StateHasChanged()
}

func (c *Counter) HandleEvent(name string) error {
	switch name {
	case EventIncrement:
		c.Increment()
		return nil
	default:
		return ErrUnknownEvent
	}
}

func (c *Counter) Render(w io.Writer) error {
	return counterTemplate.Execute(w, struct {
		Title string
		Count int
		Port  string
	}{
		Title: Title,
		Count: c.count,
		Port:  c.port,
	})
}
