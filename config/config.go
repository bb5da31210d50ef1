package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/walterschell/chess-tracker/tracker"
)

const DefaultPort = 8080

type Config struct {
	Port        uint
	LogLevel    string
	LogPretty   bool
	KingSteps   bool
	StrictMoves bool
	JournalPath string
	NatsURL     string
	NatsPrefix  string
}

func defaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("engine.king_steps", false)
	v.SetDefault("engine.strict_moves", false)
	v.SetDefault("journal.path", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.prefix", "tracker")
}

// Load reads configuration from path (if non-empty), then from a
// tracker.yaml in the working directory, then from TRACKER_* environment
// variables. A missing default file is not an error; a missing explicit
// one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("tracker")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tracker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port:        v.GetUint("server.port"),
		LogLevel:    v.GetString("log.level"),
		LogPretty:   v.GetBool("log.pretty"),
		KingSteps:   v.GetBool("engine.king_steps"),
		StrictMoves: v.GetBool("engine.strict_moves"),
		JournalPath: v.GetString("journal.path"),
		NatsURL:     v.GetString("nats.url"),
		NatsPrefix:  v.GetString("nats.prefix"),
	}
	if cfg.Port == 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port number %d", cfg.Port)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return cfg, nil
}

// BoardOptions translates the engine section into tracker options.
func (c *Config) BoardOptions() []tracker.BoardOption {
	var opts []tracker.BoardOption
	if c.KingSteps {
		opts = append(opts, tracker.WithKingSteps())
	}
	if c.StrictMoves {
		opts = append(opts, tracker.WithStrictMoves())
	}
	return opts
}

// SetupLogging applies the log section to zerolog's global logger.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
