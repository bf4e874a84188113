package discord

import (
	"context"
	"fmt"
	"slashbot/internal/core/domain"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FollowupWindow is how long after creation an interaction can still be answered through
// its own token. Later sends are posted to the originating channel instead.
const FollowupWindow = 12 * time.Minute

// Context is the response channel of a single interaction. All state transitions happen
// under mu, so the handler and the dispatcher's deferral can not race.
type Context struct {
	session     Session
	interaction *discordgo.Interaction
	invocation  domain.Invocation
	now         func() time.Time

	mu    sync.Mutex
	state domain.ResponseState

	l zerolog.Logger
}

type ContextOption func(*Context)

// WithClock replaces time.Now, used to evaluate the followup window.
func WithClock(now func() time.Time) ContextOption {
	return func(c *Context) { c.now = now }
}

func NewContext(session Session, i *discordgo.Interaction, opts ...ContextOption) *Context {
	c := &Context{
		session:     session,
		interaction: i,
		invocation:  newInvocation(i),
		now:         time.Now,
		state:       domain.Unresponded,
	}
	for _, o := range opts {
		o(c)
	}

	c.l = log.With().
		Str("interactionId", i.ID).
		Str("guildId", i.GuildID).
		Str("channelId", i.ChannelID).
		Logger()

	return c
}

func newInvocation(i *discordgo.Interaction) domain.Invocation {
	inv := domain.Invocation{
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
	}

	if created, err := discordgo.SnowflakeTimestamp(i.ID); err == nil {
		inv.CreatedAt = created
	} else {
		inv.CreatedAt = time.Now()
	}

	var u *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		u = i.Member.User
	case i.User != nil:
		u = i.User
	}
	if u != nil {
		inv.Author = &domain.Member{
			ID:            u.ID,
			GuildID:       i.GuildID,
			Username:      u.Username,
			Discriminator: u.Discriminator,
			GlobalName:    u.GlobalName,
			Bot:           u.Bot,
		}
		if i.Member != nil {
			inv.Author.Nick = i.Member.Nick
			inv.Author.Permissions = i.Member.Permissions
		}
	}

	return inv
}

// SetPath records the resolved command path on the invocation.
func (c *Context) SetPath(p domain.Path) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invocation.Path = p
	c.l = c.l.With().Str("path", p.String()).Logger()
}

func (c *Context) Invocation() domain.Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invocation
}

func (c *Context) State() domain.ResponseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) expired() bool {
	return c.now().After(c.invocation.CreatedAt.Add(FollowupWindow))
}

func (c *Context) Defer(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.Unresponded {
		return domain.ErrAlreadyResponded
	}
	if c.expired() {
		return domain.ErrResponseSlotExpired
	}

	err := c.session.InteractionRespond(c.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to defer interaction: %w", err)
	}

	c.state = domain.RespondedDeferred
	c.l.Debug().Msg("interaction deferred")

	return nil
}

// Send never fails once it had to fall back to the originating channel; fallback errors
// are logged only.
func (c *Context) Send(ctx context.Context, content string, opts ...domain.ReplyOption) error {
	reply := domain.NewReply(content, opts...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expired() {
		c.l.Debug().Err(domain.ErrResponseSlotExpired).Msg("sending to channel instead")
		c.state = domain.Responded
		c.sendToChannel(ctx, reply)
		return nil
	}

	var err error
	switch c.state {
	case domain.RespondedDeferred:
		err = c.editOriginal(ctx, reply)
	case domain.Responded:
		err = c.followup(ctx, reply)
	default:
		err = c.respond(ctx, reply)
	}

	// the slot is consumed even when the platform rejected the call
	c.state = domain.Responded

	if err != nil {
		if isRejected(err) {
			c.l.Debug().Err(err).Msg("interaction response rejected, sending to channel instead")
		} else {
			c.l.Warn().Err(err).Msg("interaction response failed, sending to channel instead")
		}
		c.sendToChannel(ctx, reply)
	}

	return nil
}

func (c *Context) respond(ctx context.Context, reply domain.Reply) error {
	data := &discordgo.InteractionResponseData{
		Content:         reply.Content,
		AllowedMentions: allowedMentions(),
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return c.session.InteractionRespond(c.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
}

func (c *Context) editOriginal(ctx context.Context, reply domain.Reply) error {
	content := reply.Content
	_, err := c.session.InteractionResponseEdit(c.interaction, &discordgo.WebhookEdit{
		Content:         &content,
		AllowedMentions: allowedMentions(),
	}, discordgo.WithContext(ctx))

	return err
}

func (c *Context) followup(ctx context.Context, reply domain.Reply) error {
	params := &discordgo.WebhookParams{
		Content:         reply.Content,
		AllowedMentions: allowedMentions(),
	}
	if reply.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}

	_, err := c.session.FollowupMessageCreate(c.interaction, true, params, discordgo.WithContext(ctx))
	return err
}

func (c *Context) sendToChannel(ctx context.Context, reply domain.Reply) {
	_, err := c.session.ChannelMessageSendComplex(c.interaction.ChannelID, &discordgo.MessageSend{
		Content:         reply.Content,
		AllowedMentions: allowedMentions(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		c.l.Error().Err(err).Msg("failed to send reply to channel")
	}
}
