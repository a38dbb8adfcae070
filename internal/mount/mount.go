package mount

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/3-lines-studio/starter/internal/component"
	"github.com/3-lines-studio/starter/internal/core"
	"golang.org/x/net/html"
)

const (
	SessionScriptID = "__STARTER_SESSION__"

	outletMarker  = "starter:outlet"
	sessionMarker = "starter:session"
)

var ErrContainerNotFound = errors.New("mount container not found")

// Shell is a page split around its mount container. It is immutable and safe
// for concurrent use.
type Shell struct {
	beforeOutlet  string
	beforeSession string
	rest          string
}

// Prepare locates the element with the given id in document. Existing children
// of the container are discarded; they are replaced on every render.
func Prepare(document []byte, containerID string) (*Shell, error) {
	doc, err := html.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	container := core.FindElementByID(doc, containerID)
	if container == nil {
		return nil, fmt.Errorf("%w: no element with id %q", ErrContainerNotFound, containerID)
	}

	for c := container.FirstChild; c != nil; c = container.FirstChild {
		container.RemoveChild(c)
	}
	container.AppendChild(&html.Node{Type: html.CommentNode, Data: outletMarker})

	session := &html.Node{Type: html.CommentNode, Data: sessionMarker}
	container.Parent.InsertBefore(session, container.NextSibling)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	page := buf.String()

	before, after, ok := strings.Cut(page, "<!--"+outletMarker+"-->")
	if !ok {
		return nil, fmt.Errorf("%w: outlet lost while rendering", ErrContainerNotFound)
	}
	between, rest, ok := strings.Cut(after, "<!--"+sessionMarker+"-->")
	if !ok {
		return nil, fmt.Errorf("%w: session marker lost while rendering", ErrContainerNotFound)
	}

	return &Shell{
		beforeOutlet:  before,
		beforeSession: between,
		rest:          rest,
	}, nil
}

// Render writes the page with root rendered inside the container. A non-empty
// session id is published in a JSON script right after the container so the
// browser can claim the live instance.
func (s *Shell) Render(w io.Writer, root component.Component, sessionID string) error {
	var body bytes.Buffer
	if err := root.Render(&body); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(s.beforeOutlet)
	buf.Write(body.Bytes())
	buf.WriteString(s.beforeSession)
	if sessionID != "" {
		script, err := sessionScript(sessionID)
		if err != nil {
			return err
		}
		buf.WriteString(script)
	}
	buf.WriteString(s.rest)

	_, err := w.Write(buf.Bytes())
	return err
}

func sessionScript(sessionID string) (string, error) {
	data, err := json.Marshal(map[string]string{"session": sessionID})
	if err != nil {
		return "", err
	}
	escaped := strings.ReplaceAll(string(data), "</", "<\\/")
	return `<script id="` + SessionScriptID + `" type="application/json">` + escaped + `</script>`, nil
}
