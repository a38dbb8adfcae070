package core

import (
	"context"
	"errors"
	"fmt"
)

// RuntimeError is an error reported by the page running in the browser.
type RuntimeError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

func (e *RuntimeError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ShouldOverlay reports whether err belongs on the development error overlay.
// Cancellations are expected while the page reloads and are never shown.
func ShouldOverlay(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) && runtimeErr.Name == "AbortError" {
		return false
	}
	return true
}
