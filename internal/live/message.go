package live

import "github.com/3-lines-studio/starter/internal/core"

const (
	TypeEvent  = "event"
	TypeRender = "render"
	TypeError  = "error"

	TypeReload       = "reload"
	TypeOK           = "ok"
	TypeRuntimeError = "runtime-error"
)

// ClientMessage is what the page sends over the live socket.
type ClientMessage struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Message string `json:"message,omitempty"`
}

// ReloadMessage travels over the development reload socket.
type ReloadMessage struct {
	Type   string              `json:"type"`
	Build  string              `json:"build,omitempty"`
	Errors []core.BuildMessage `json:"errors,omitempty"`
}

// RuntimeReport is a browser-side error the page forwards to the server.
type RuntimeReport struct {
	Type  string            `json:"type"`
	Error core.RuntimeError `json:"error"`
}
