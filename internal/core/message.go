package core

import (
	"fmt"
	"strings"
)

type BuildMessage struct {
	Text   string `json:"text"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Plugin string `json:"plugin,omitempty"`
}

func (m BuildMessage) String() string {
	if m.File == "" {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.File, m.Line, m.Column, m.Text)
}

// BuildError carries every error message of a failed build.
type BuildError struct {
	Messages []BuildMessage
}

func (e *BuildError) Error() string {
	if len(e.Messages) == 0 {
		return "build failed"
	}
	lines := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		lines = append(lines, m.String())
	}
	return "build failed: " + strings.Join(lines, "; ")
}
