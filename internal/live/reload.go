package live

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/3-lines-studio/starter/internal/core"
	"github.com/sirupsen/logrus"
)

const ReloadPath = "/__reload"

//go:embed reload.js
var reloadScriptSource string

// Hub fans build outcomes out to every open development page.
type Hub struct {
	overlay func(error) bool
	log     *logrus.Entry

	mu   sync.Mutex
	subs map[chan ReloadMessage]struct{}
	last ReloadMessage
}

// NewHub creates a hub. overlay decides which runtime errors reported by the
// browser are worth logging; nil accepts all of them.
func NewHub(overlay func(error) bool) *Hub {
	if overlay == nil {
		overlay = func(err error) bool { return err != nil }
	}
	return &Hub{
		overlay: overlay,
		log:     logrus.WithField("component", "reload"),
		subs:    map[chan ReloadMessage]struct{}{},
		last:    ReloadMessage{Type: TypeOK},
	}
}

// Subscribe registers a listener. It immediately receives the current state:
// the pending errors of a failed build, or ok.
func (h *Hub) Subscribe() chan ReloadMessage {
	ch := make(chan ReloadMessage, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	current := h.last
	h.mu.Unlock()

	if current.Type != TypeError {
		current = ReloadMessage{Type: TypeOK}
	}
	ch <- current
	return ch
}

func (h *Hub) Unsubscribe(ch chan ReloadMessage) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

// Reload tells every page to load the given build.
func (h *Hub) Reload(buildID string) {
	h.publish(ReloadMessage{Type: TypeReload, Build: buildID})
}

// Fail puts the build errors on every page's overlay.
func (h *Hub) Fail(messages []core.BuildMessage) {
	h.publish(ReloadMessage{Type: TypeError, Errors: messages})
}

// publish keeps only the newest message for a slow subscriber.
func (h *Hub) publish(msg ReloadMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = msg
	for ch := range h.subs {
		select {
		case ch <- msg:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to upgrade reload socket")
		return
	}
	defer conn.Close()

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var report RuntimeReport
			if err := conn.ReadJSON(&report); err != nil {
				return
			}
			if report.Type != TypeRuntimeError {
				continue
			}
			if h.overlay(&report.Error) {
				h.log.WithField("source", report.Error.Source).Warn(report.Error.Error())
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case msg := <-ch:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

// InjectReloadScript adds the reload client before </body>, or appends it
// when the page has no body end tag.
func InjectReloadScript(page []byte) []byte {
	if bytes.Contains(page, []byte("__starter_reload")) {
		return page
	}

	script := []byte("<script>" + reloadScriptSource + "</script>")
	idx := bytes.LastIndex(page, []byte("</body>"))
	if idx < 0 {
		return append(append([]byte(nil), page...), script...)
	}

	out := make([]byte, 0, len(page)+len(script))
	out = append(out, page[:idx]...)
	out = append(out, script...)
	out = append(out, page[idx:]...)
	return out
}
