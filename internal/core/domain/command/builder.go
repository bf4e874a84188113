package command

import (
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
)

type Option func(*port.Command)

// WithPath overrides the path inferred from the command name.
func WithPath(segments ...string) Option {
	return func(c *port.Command) {
		c.Path = domain.NewPath(segments...)
	}
}

// WithAliases adds alternate paths, typically the names of user or message
// context-menu commands that share the handler.
func WithAliases(aliases ...domain.Path) Option {
	return func(c *port.Command) {
		c.Aliases = append(c.Aliases, aliases...)
	}
}

// New marks handler as a command. Its path is inferred from name by splitting on
// word boundaries ("group_command" -> ("group", "command")) unless WithPath is given.
func New(name string, handler port.HandlerFunc, opts ...Option) port.Command {
	c := port.Command{
		Path:    domain.PathFromName(name),
		Handler: handler,
	}
	for _, o := range opts {
		o(&c)
	}

	return c
}
