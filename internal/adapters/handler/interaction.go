package handler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slashbot/internal/adapters/discord"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// GracePeriod is how long a handler may take before the interaction is deferred on its behalf.
const GracePeriod = 2 * time.Second

// Interaction routes application command interactions to registered handlers.
type Interaction struct {
	registry port.CommandRegistry
	session  discord.Session
	dir      discord.GuildDirectory
	reporter port.Reporter
	timeout  time.Duration
	grace    time.Duration
}

func NewInteraction(registry port.CommandRegistry, session discord.Session, dir discord.GuildDirectory,
	reporter port.Reporter, timeout time.Duration) *Interaction {
	return &Interaction{
		registry: registry,
		session:  session,
		dir:      dir,
		reporter: reporter,
		timeout:  timeout,
		grace:    GracePeriod,
	}
}

// Handle has the signature discordgo expects for InteractionCreate events.
func (h *Interaction) Handle(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic == nil {
		return
	}

	h.Dispatch(context.Background(), ic.Interaction)
}

type outcome struct {
	err   error
	stack []byte
}

func (h *Interaction) Dispatch(ctx context.Context, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if i.GuildID == "" {
		h.refuseOutsideGuild(ctx, i)
		return
	}

	started := time.Now()
	c := discord.NewContext(h.session, i)

	args, path, err := discord.ResolveArguments(i, h.dir)
	if err != nil {
		log.Warn().Err(err).Str("interactionId", i.ID).Msg("could not resolve command arguments")
		_ = c.Send(ctx, domain.MsgBadPayload, domain.Ephemeral())
		return
	}
	c.SetPath(path)

	inv := c.Invocation()
	l := log.With().
		Str("path", path.String()).
		Str("interactionId", inv.ID).
		Str("guildId", inv.GuildID).
		Str("userId", authorID(inv)).
		Logger()

	cmd, err := h.registry.Lookup(path)
	if err != nil {
		l.Debug().Err(err).Msg("no handler for command")
		_ = c.Send(ctx, domain.MsgNotAvailable, domain.Ephemeral())
		return
	}

	l.Debug().Msg("received command")

	runCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out := h.run(runCtx, c, cmd, args)
	if out.err != nil {
		// the handler context may have timed out, the apology still has to go out
		h.fail(context.WithoutCancel(ctx), c, out)
	}

	l.Info().
		Dur("duration", time.Since(started)).
		Stringer("state", c.State()).
		Bool("failed", out.err != nil).
		Msg("command dispatched")
}

// run executes the handler and defers the interaction if it has not answered once the grace
// period is over.
func (h *Interaction) run(ctx context.Context, c *discord.Context, cmd port.Command, args domain.Args) outcome {
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r), stack: debug.Stack()}
			}
		}()
		done <- outcome{err: cmd.Handler(ctx, c, args)}
	}()

	timer := time.NewTimer(h.grace)
	defer timer.Stop()

	select {
	case out := <-done:
		return out
	case <-timer.C:
		err := c.Defer(ctx)
		if err != nil && !errors.Is(err, domain.ErrAlreadyResponded) {
			log.Warn().Err(err).Str("path", c.Invocation().Path.String()).Msg("failed to defer interaction")
		}
	}

	return <-done
}

func (h *Interaction) fail(ctx context.Context, c *discord.Context, out outcome) {
	ref, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate diagnostic reference")
	}

	_ = c.Send(ctx, fmt.Sprintf(domain.MsgApology, ref))

	if h.reporter == nil {
		return
	}

	inv := c.Invocation()
	h.reporter.Report(ctx, domain.Diagnostic{
		Ref:           ref.String(),
		Path:          inv.Path,
		InteractionID: inv.ID,
		GuildID:       inv.GuildID,
		ChannelID:     inv.ChannelID,
		UserID:        authorID(inv),
		JumpURL:       inv.JumpURL(),
		Err:           fmt.Errorf("%w: %w", domain.ErrHandlerFailure, out.err),
		Stack:         out.stack,
		OccurredAt:    time.Now(),
	})
}

func (h *Interaction) refuseOutsideGuild(ctx context.Context, i *discordgo.Interaction) {
	log.Debug().Str("interactionId", i.ID).Err(domain.ErrNotInGuild).Msg("refusing command")

	err := h.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: domain.MsgGuildOnly,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Warn().Err(err).Str("interactionId", i.ID).Msg("failed to refuse command")
	}
}

func authorID(inv domain.Invocation) string {
	if inv.Author == nil {
		return ""
	}
	return inv.Author.ID
}
