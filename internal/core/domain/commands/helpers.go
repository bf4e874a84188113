package commands

import (
	"context"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authorizer interface {
	IsAuthorized(ctx context.Context, c port.Context) bool
}

type usageTracker interface {
	AddUsage(userID string, tokens int)
	CheckLimit(ctx context.Context, c port.Context) bool
}

// maxMessageLength is the platform limit for message content.
const maxMessageLength = 2000

func logger(c port.Context) zerolog.Logger {
	inv := c.Invocation()
	l := log.With().
		Str("interactionId", inv.ID).
		Str("guildId", inv.GuildID).
		Str("path", inv.Path.String())
	if inv.Author != nil {
		l = l.Str("userId", inv.Author.ID)
	}
	return l.Logger()
}

// targetMember returns the member passed at position i, or the invoking user.
func targetMember(c port.Context, args domain.Args, i int) *domain.Member {
	if m, ok := args.Member(i); ok && m != nil {
		return m
	}
	return c.Invocation().Author
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
