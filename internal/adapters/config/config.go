package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "slashbot"

type Bot struct {
	LogLevel             string   `mapstructure:"log_level" validate:"oneof=debug info warn"`
	Extensions           []string `mapstructure:"extensions" validate:"dive,required"`
	OperatorIDs          []string `mapstructure:"operator_ids" validate:"dive,numeric"`
	DiagnosticsChannelID string   `mapstructure:"diagnostics_channel_id" validate:"omitempty,numeric"`
}

type Discord struct {
	Token string `mapstructure:"token" validate:"required"`
}

type OpenRouter struct {
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model" validate:"required_with=APIKey"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

type Ask struct {
	DailyLimit int `mapstructure:"daily_limit" validate:"gte=0"`
}

type Handler struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type Config struct {
	Bot        Bot        `mapstructure:"bot"`
	Discord    Discord    `mapstructure:"discord"`
	OpenRouter OpenRouter `mapstructure:"openrouter"`
	Ask        Ask        `mapstructure:"ask"`
	Handler    Handler    `mapstructure:"handler"`
}

var validate = validator.New()

// SetDefaults registers every known key, which also lets AutomaticEnv pick up
// SLASHBOT_* variables for keys missing from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.extensions", []string{"dev", "example"})
	v.SetDefault("bot.operator_ids", []string{})
	v.SetDefault("bot.diagnostics_channel_id", "")
	v.SetDefault("discord.token", "")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.model", "openai/gpt-4.1-mini")
	v.SetDefault("openrouter.system_prompt", "")
	v.SetDefault("ask.daily_limit", 0)
	v.SetDefault("handler.timeout", "10m")
}

// Load reads .env, config.toml from the working directory and the environment into v and
// returns the validated result. A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
		log.Warn().Msg("no config file found, using defaults and environment")
	}

	return Decode(v)
}

// Decode unmarshals and validates the settings already present in v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
