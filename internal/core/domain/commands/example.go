package commands

import (
	"context"
	"errors"
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/domain/command"
	"slashbot/internal/core/port"
)

const (
	greetTemplate = "Hi %s!"
	lovesTemplate = "%s loves group commands!"
)

// Example greets members. "Say Hi" is the user context-menu entry of /command.
type Example struct{}

func NewExample() *Example {
	return &Example{}
}

func (e *Example) Name() string {
	return "example"
}

func (e *Example) Commands() []port.Command {
	return []port.Command{
		command.New("command", e.greet, command.WithAliases(domain.NewPath("Say Hi"))),
		command.New("group_command", e.loves),
	}
}

func (e *Example) greet(ctx context.Context, c port.Context, args domain.Args) error {
	m := targetMember(c, args, 0)
	if m == nil {
		return errors.New("no member to greet")
	}

	l := logger(c)
	l.Info().Str("target", m.ID).Msg("handling request")

	return c.Send(ctx, fmt.Sprintf(greetTemplate, m.Mention()))
}

func (e *Example) loves(ctx context.Context, c port.Context, args domain.Args) error {
	m := targetMember(c, args, 0)
	if m == nil {
		return errors.New("no member given")
	}

	l := logger(c)
	l.Info().Str("target", m.ID).Msg("handling request")

	return c.Send(ctx, fmt.Sprintf(lovesTemplate, m.Mention()))
}
