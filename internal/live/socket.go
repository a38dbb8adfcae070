package live

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const SocketPath = "/__live"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SocketHandler drives claimed sessions from the browser. The session is
// unmounted when the socket closes.
type SocketHandler struct {
	registry *Registry
	log      *logrus.Entry
}

func NewSocketHandler(registry *Registry) *SocketHandler {
	return &SocketHandler{
		registry: registry,
		log:      logrus.WithField("component", "live"),
	}
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	session, err := h.registry.Claim(id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrSessionClaimed):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer h.registry.Unmount(id)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("failed to upgrade live socket")
		return
	}
	defer conn.Close()

	log := h.log.WithField("session", id)
	log.Debug("session claimed")

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("live socket closed")
			}
			return
		}

		reply := h.handle(session, msg)
		if reply == nil {
			continue
		}
		if reply.Type == TypeError {
			log.WithField("event", msg.Event).Warn(reply.Message)
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("failed to write to live socket")
			return
		}
	}
}

func (h *SocketHandler) handle(session *Session, msg ClientMessage) *ServerMessage {
	if msg.Type != TypeEvent {
		return &ServerMessage{Type: TypeError, Message: "unsupported message type " + msg.Type}
	}

	markup, changed, err := session.Dispatch(msg.Event)
	if err != nil {
		return &ServerMessage{Type: TypeError, Message: err.Error()}
	}
	if !changed {
		return nil
	}
	return &ServerMessage{Type: TypeRender, HTML: string(markup)}
}
