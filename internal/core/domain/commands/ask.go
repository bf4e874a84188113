package commands

import (
	"context"
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/domain/command"
	"slashbot/internal/core/port"
)

// Ask answers a prompt with the configured text generator, within each user's daily quota.
type Ask struct {
	generator port.TextGenerator
	tracker   usageTracker
}

func NewAsk(generator port.TextGenerator, tracker usageTracker) *Ask {
	return &Ask{generator: generator, tracker: tracker}
}

func (a *Ask) Name() string {
	return "ask"
}

func (a *Ask) Commands() []port.Command {
	return []port.Command{command.New("ask", a.ask)}
}

func (a *Ask) ask(ctx context.Context, c port.Context, args domain.Args) error {
	l := logger(c)

	prompt, _ := args.String(0)
	if prompt == "" {
		l.Debug().Err(domain.ErrEmptyPrompt).Send()
		return c.Send(ctx, "Ask me something.", domain.Ephemeral())
	}

	if !a.tracker.CheckLimit(ctx, c) {
		return nil
	}

	l.Info().Msg("handling request")

	resp, err := a.generator.GenerateFromPrompt(ctx, []domain.Prompt{{Prompt: prompt, Author: domain.User}})
	if err != nil {
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	l.Debug().
		Str("model", resp.Metadata.Model).
		Int("totalTokens", resp.Metadata.TotalTokens).
		Msg("reply generated")

	if author := c.Invocation().Author; author != nil {
		a.tracker.AddUsage(author.ID, resp.Metadata.TotalTokens)
	}

	return c.Send(ctx, truncate(resp.Response, maxMessageLength))
}
