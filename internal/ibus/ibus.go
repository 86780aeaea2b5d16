// Package ibus exposes the composition engine as an IBus input-method
// engine over the session D-Bus. The dispatcher's Actions map onto IBus
// panel signals: commits become CommitText, display updates become preedit
// plus auxiliary text.
package ibus

import (
	"fmt"
	"strings"

	"liuime/internal/engine"
	"liuime/internal/keymap"
)

// Core is the serialized engine surface the frontend drives. The daemon
// implements it with a mutex around the dispatcher.
type Core interface {
	Handle(ev keymap.Event) engine.Action
	Reset()
}

// Config holds frontend configuration.
type Config struct {
	// BusName is the well-known name requested on the session bus.
	BusName string

	// EngineName is the engine identifier IBus asks the factory for.
	EngineName string

	// OnCommit is invoked after text is committed, with the code that
	// produced it and the selection source. Optional.
	OnCommit func(code, text, source string)

	// OnQuit is invoked when the quit key fires. Optional.
	OnQuit func()
}

// DefaultConfig returns the standard bus identity.
func DefaultConfig() Config {
	return Config{
		BusName:    "dev.liuime.IBus",
		EngineName: "liuime",
	}
}

// renderAux formats a display snapshot into the auxiliary-text line shown
// under the preedit: pending selection, numbered candidates, page indicator.
func renderAux(d engine.Display) string {
	var b strings.Builder
	if d.Pending != "" {
		b.WriteString("[")
		b.WriteString(d.Pending)
		b.WriteString("] ")
	}
	for i, cand := range d.Candidates {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d.%s", i+1, cand)
	}
	if d.Pages > 1 {
		fmt.Fprintf(&b, "  (%d/%d)", d.Page+1, d.Pages)
	}
	return b.String()
}
