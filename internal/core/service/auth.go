package service

import (
	"context"
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
	"slices"

	"github.com/rs/zerolog/log"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, c port.Context) bool
}

// OperatorAuthorizer admits the configured operator users.
type OperatorAuthorizer struct {
	allowlist []string
}

func NewAuthorizer(operatorIDs []string) *OperatorAuthorizer {
	return &OperatorAuthorizer{allowlist: slices.Clone(operatorIDs)}
}

const forbidden = "You are not allowed to use this command. Ask an operator to add your ID: %s"

func (a *OperatorAuthorizer) IsAuthorized(ctx context.Context, c port.Context) bool {
	author := c.Invocation().Author
	if author == nil {
		return false
	}

	for _, id := range a.allowlist {
		if id == author.ID {
			return true
		}
	}

	log.Info().Str("userId", author.ID).Str("path", c.Invocation().Path.String()).
		Msg("refusing operator command")

	err := c.Send(ctx, fmt.Sprintf(forbidden, author.ID), domain.Ephemeral())
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
