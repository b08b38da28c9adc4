// Package mcp parses MCP command configuration and serves die tools on stdio.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/loadeddie/internal/app"
	"github.com/louisbranch/loadeddie/internal/mcpserver"
	platformcmd "github.com/louisbranch/loadeddie/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	Seed        int64  `env:"LOADEDDIE_SEED"`
	Cheat       bool   `env:"LOADEDDIE_CHEAT"`
	JournalPath string `env:"LOADEDDIE_JOURNAL_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
		fs.BoolVar(&cfg.Cheat, "cheat", cfg.Cheat, "start with cheat mode on")
		fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "SQLite roll journal path (empty = disabled)")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the die over MCP stdio until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		server, closeTable, err := newServer(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeTable()
		return server.Serve(ctx)
	})
}

func newServer(ctx context.Context, cfg Config) (*mcpserver.Server, func(), error) {
	table, err := app.Open(ctx, app.Options{
		Seed:        cfg.Seed,
		Cheat:       cfg.Cheat,
		JournalPath: cfg.JournalPath,
	})
	if err != nil {
		return nil, nil, err
	}
	closeTable := func() {
		if err := table.Close(); err != nil {
			log.Printf("close journal: %v", err)
		}
	}
	log.Printf("session %s seed %d (%s)", table.Session.ID(), table.Seed, table.SeedSource)

	server, err := mcpserver.New(table.Session)
	if err != nil {
		closeTable()
		return nil, nil, err
	}
	return server, closeTable, nil
}
