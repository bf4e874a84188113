package discord

import (
	"context"
	"fmt"
	"slashbot/internal/core/domain"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const diagnosticTemplate = "**command failed** `/%s`\nref: `%s`\nguild: `%s` channel: `%s` user: `%s`\n%s\n```\n%s\n```"

const (
	maxStackLines = 20
	// maxMessageLength is the platform limit for message content.
	maxMessageLength = 2000
)

// Reporter logs handler failures and, when an operator channel is configured, posts them
// there as well.
type Reporter struct {
	session   Session
	channelID string
}

func NewReporter(session Session, channelID string) *Reporter {
	return &Reporter{session: session, channelID: channelID}
}

func (r *Reporter) Report(ctx context.Context, d domain.Diagnostic) {
	event := log.Error().
		Err(d.Err).
		Str("ref", d.Ref).
		Str("path", d.Path.String()).
		Str("interactionId", d.InteractionID).
		Str("guildId", d.GuildID).
		Str("channelId", d.ChannelID).
		Str("userId", d.UserID).
		Str("jumpUrl", d.JumpURL).
		Time("occurredAt", d.OccurredAt)
	if len(d.Stack) > 0 {
		event = event.Bytes("stack", d.Stack)
	}
	event.Msg("command handler failed")

	if r.channelID == "" || r.session == nil {
		return
	}

	detail := fmt.Sprint(d.Err)
	if len(d.Stack) > 0 {
		detail += "\n" + trimStack(string(d.Stack))
	}

	content := fmt.Sprintf(diagnosticTemplate,
		d.Path, d.Ref, d.GuildID, d.ChannelID, d.UserID, d.JumpURL, detail)

	_, err := r.session.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Content:         truncate(content, maxMessageLength),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Warn().Err(err).Str("ref", d.Ref).Msg("failed to post diagnostic to operator channel")
	}
}

func trimStack(stack string) string {
	lines := strings.Split(strings.TrimSpace(stack), "\n")
	if len(lines) > maxStackLines {
		lines = append(lines[:maxStackLines], "...")
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to limit runes. A cut inside the code block still closes it.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}

	const tail = "…\n```"
	return string(r[:limit-utf8.RuneCountInString(tail)]) + tail
}
