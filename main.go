package main

import (
	"context"
	"os"
	"os/signal"
	"slashbot/internal/adapters/config"
	"slashbot/internal/adapters/discord"
	"slashbot/internal/adapters/generator"
	"slashbot/internal/adapters/handler"
	"slashbot/internal/core/domain/command"
	"slashbot/internal/core/domain/commands"
	"slashbot/internal/core/port"
	"slashbot/internal/core/service"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting slashbot...")

	log.Info().Msg("reading config file...")
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	var logLevel zerolog.Level

	switch cfg.Bot.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing discord session")
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	commandRegistry := command.NewRegistry()
	extensions := service.NewExtensions(commandRegistry)

	authorizer := service.NewAuthorizer(cfg.Bot.OperatorIDs)
	tracker := service.NewUsageTracker(ctx, cfg.Ask.DailyLimit)

	extensions.Add(commands.DevName, func() (port.Collaborator, error) {
		return commands.NewDev(extensions, authorizer), nil
	})
	extensions.Add("example", func() (port.Collaborator, error) {
		return commands.NewExample(), nil
	})
	if cfg.OpenRouter.APIKey != "" {
		extensions.Add("ask", func() (port.Collaborator, error) {
			gen := generator.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.SystemPrompt)
			return commands.NewAsk(gen, tracker), nil
		})
	} else {
		log.Info().Msg("openrouter.api_key is not set, ask is unavailable")
	}

	if err := extensions.LoadAll(cfg.Bot.Extensions); err != nil {
		log.Fatal().Err(err).Msg("failed loading extensions")
	}

	reporter := discord.NewReporter(s, cfg.Bot.DiagnosticsChannelID)
	interactionHandler := handler.NewInteraction(commandRegistry, s, s.State, reporter, cfg.Handler.Timeout)

	s.AddHandler(interactionHandler.Handle)
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.String()).Int("guilds", len(r.Guilds)).Msg("session ready")
	})

	if err := s.Open(); err != nil {
		log.Panic().Err(err).Msg("failed opening discord session")
	}
	defer s.Close()

	log.Info().
		Strs("extensions", extensions.Loaded()).
		Int("commands", len(commandRegistry.ListCommands())).
		Msg("bot listening")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}
