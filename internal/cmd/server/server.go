// Package server parses server command flags and starts the game
// session runtime.
package server

import (
	"context"
	"flag"

	entrypoint "github.com/sandlotlabs/dugout/internal/platform/cmd"
	"github.com/sandlotlabs/dugout/internal/server"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"DUGOUT_PORT" envDefault:"8080"`
	Addr   string `env:"DUGOUT_ADDR"`
	DBPath string `env:"DUGOUT_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game session API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr, cfg.DBPath)
		}
		return server.Run(ctx, cfg.Port, cfg.DBPath)
	})
}
