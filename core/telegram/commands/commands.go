package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command describes a bot command for the menu and, optionally, a dedicated handler.
// Commands without a Handler are menu entries only; their text reaches the
// generic text route.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Routed reports whether the command is bound to its own handler.
func (c Command) Routed() bool {
	return c.Handler != nil
}
