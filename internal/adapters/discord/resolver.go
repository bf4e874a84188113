package discord

import (
	"fmt"
	"slashbot/internal/core/domain"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// ResolveArguments turns the option tree of an application command interaction into
// positional arguments and the path of the command to run.
func ResolveArguments(i *discordgo.Interaction, dir GuildDirectory) (domain.Args, domain.Path, error) {
	if i == nil {
		return nil, domain.Path{}, fmt.Errorf("%w: no interaction", domain.ErrMalformedPayload)
	}
	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return nil, domain.Path{}, fmt.Errorf("%w: not an application command", domain.ErrMalformedPayload)
	}

	path := domain.NewPath(data.Name)
	if path.IsZero() {
		return nil, path, fmt.Errorf("%w: empty command name", domain.ErrMalformedPayload)
	}

	r := &resolver{guildID: i.GuildID, resolved: data.Resolved, dir: dir}

	switch data.CommandType {
	case discordgo.UserApplicationCommand:
		member, err := r.member(data.TargetID)
		if err != nil {
			return nil, path, err
		}
		return domain.Args{member}, path, nil
	case discordgo.MessageApplicationCommand:
		message, err := r.message(data.TargetID)
		if err != nil {
			return nil, path, err
		}
		return domain.Args{message}, path, nil
	}

	if len(data.Options) == 0 {
		return domain.Args{}, path, nil
	}

	return r.walk(data.Options, path)
}

type resolver struct {
	guildID  string
	resolved *discordgo.ApplicationCommandInteractionDataResolved
	dir      GuildDirectory
}

// walk resolves one level of options. The first subcommand or subcommand group that carries
// nested options is followed and ends the walk at this level.
func (r *resolver) walk(options []*discordgo.ApplicationCommandInteractionDataOption,
	path domain.Path) (domain.Args, domain.Path, error) {
	args := domain.Args{}

	for _, opt := range options {
		if opt == nil {
			return nil, path, fmt.Errorf("%w: nil option", domain.ErrMalformedPayload)
		}

		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			path = path.Append(opt.Name)
			if len(opt.Options) > 0 {
				return r.walk(opt.Options, path)
			}
			continue
		}

		arg, err := r.option(opt)
		if err != nil {
			return nil, path, fmt.Errorf("option %q: %w", opt.Name, err)
		}
		args = append(args, arg)
	}

	return args, path, nil
}

func (r *resolver) option(opt *discordgo.ApplicationCommandInteractionDataOption) (any, error) {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionString:
		s, err := cast.ToStringE(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return strings.TrimSpace(s), nil
	case discordgo.ApplicationCommandOptionInteger:
		n, err := cast.ToInt64E(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return n, nil
	case discordgo.ApplicationCommandOptionNumber:
		f, err := cast.ToFloat64E(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return f, nil
	case discordgo.ApplicationCommandOptionBoolean:
		b, err := cast.ToBoolE(opt.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
		}
		return b, nil
	case discordgo.ApplicationCommandOptionUser:
		id, err := snowflake(opt.Value)
		if err != nil {
			return nil, err
		}
		return r.member(id)
	case discordgo.ApplicationCommandOptionChannel:
		id, err := snowflake(opt.Value)
		if err != nil {
			return nil, err
		}
		return r.channel(id), nil
	case discordgo.ApplicationCommandOptionRole:
		id, err := snowflake(opt.Value)
		if err != nil {
			return nil, err
		}
		return r.role(id), nil
	default:
		// MENTIONABLE (user or role) and attachments are not resolved
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedOptionType, opt.Type)
	}
}

func snowflake(v any) (string, error) {
	id, err := cast.ToStringE(v)
	if err != nil || id == "" {
		return "", fmt.Errorf("%w: invalid id %v", domain.ErrMalformedPayload, v)
	}
	return id, nil
}

// member merges the resolved user with its guild member data, if any.
func (r *resolver) member(id string) (*domain.Member, error) {
	if r.resolved == nil || r.resolved.Users[id] == nil {
		return nil, fmt.Errorf("%w: user %s missing from resolved data", domain.ErrMalformedPayload, id)
	}
	u := r.resolved.Users[id]

	m := &domain.Member{
		ID:            u.ID,
		GuildID:       r.guildID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		GlobalName:    u.GlobalName,
		Bot:           u.Bot,
	}
	if m.ID == "" {
		m.ID = id
	}
	if md := r.resolved.Members[id]; md != nil {
		m.Nick = md.Nick
		m.Permissions = md.Permissions
	}

	return m, nil
}

func (r *resolver) message(id string) (*domain.Message, error) {
	if r.resolved == nil || r.resolved.Messages[id] == nil {
		return nil, fmt.Errorf("%w: message %s missing from resolved data", domain.ErrMalformedPayload, id)
	}
	msg := r.resolved.Messages[id]

	m := &domain.Message{ID: id, ChannelID: msg.ChannelID, Content: msg.Content}
	if msg.Author != nil {
		m.AuthorID = msg.Author.ID
	}
	return m, nil
}

// channel prefers the guild state, then the resolved table, then an id-only reference.
func (r *resolver) channel(id string) *domain.Channel {
	if r.dir != nil {
		if ch, err := r.dir.Channel(id); err == nil && ch != nil {
			return &domain.Channel{ID: ch.ID, GuildID: ch.GuildID, Name: ch.Name, ParentID: ch.ParentID}
		}
	}
	if r.resolved != nil {
		if ch := r.resolved.Channels[id]; ch != nil {
			return &domain.Channel{ID: id, GuildID: r.guildID, Name: ch.Name, ParentID: ch.ParentID}
		}
	}

	log.Debug().Str("channelID", id).Msg("channel not found in guild state, using bare reference")
	return &domain.Channel{ID: id, GuildID: r.guildID}
}

func (r *resolver) role(id string) *domain.Role {
	if r.dir != nil {
		if ro, err := r.dir.Role(r.guildID, id); err == nil && ro != nil {
			return &domain.Role{ID: ro.ID, GuildID: r.guildID, Name: ro.Name, Permissions: ro.Permissions}
		}
	}
	if r.resolved != nil {
		if ro := r.resolved.Roles[id]; ro != nil {
			return &domain.Role{ID: id, GuildID: r.guildID, Name: ro.Name, Permissions: ro.Permissions}
		}
	}

	log.Debug().Str("roleID", id).Msg("role not found in guild state, using bare reference")
	return &domain.Role{ID: id, GuildID: r.guildID}
}
