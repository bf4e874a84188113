package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of the discordgo REST client used to answer interactions.
// *discordgo.Session satisfies it.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// GuildDirectory looks up guild channels and roles by id. *discordgo.State satisfies it.
type GuildDirectory interface {
	Channel(channelID string) (*discordgo.Channel, error)
	Role(guildID, roleID string) (*discordgo.Role, error)
}

// allowedMentions keeps replies from pinging @everyone or whole roles.
func allowedMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{
		Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
	}
}

// isRejected reports whether the platform refused the request, as opposed to a local or
// network failure.
func isRejected(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr)
}
