// Package roll parses roll command configuration and runs a die session.
package roll

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/louisbranch/loadeddie/internal/app"
	platformcmd "github.com/louisbranch/loadeddie/internal/platform/cmd"
	"github.com/louisbranch/loadeddie/internal/script"
	"golang.org/x/text/language"
)

// Config holds roll command configuration.
type Config struct {
	Count       int    `env:"LOADEDDIE_ROLL_COUNT"   envDefault:"1"`
	Cheat       bool   `env:"LOADEDDIE_CHEAT"`
	Seed        int64  `env:"LOADEDDIE_SEED"`
	JournalPath string `env:"LOADEDDIE_JOURNAL_PATH"`
	Script      string `env:"LOADEDDIE_SCRIPT"`
	Lang        string `env:"LOADEDDIE_LANG"         envDefault:"en"`
	History     bool   `env:"LOADEDDIE_HISTORY"`
	Verbose     bool   `env:"LOADEDDIE_VERBOSE"`
}

// ErrInvalidCount indicates a non-positive roll count without a script.
var ErrInvalidCount = errors.New("roll count must be at least 1")

// ErrHistoryNeedsJournal indicates -history was requested without -journal.
var ErrHistoryNeedsJournal = errors.New("history requires a journal path")

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.IntVar(&cfg.Count, "n", cfg.Count, "number of throws")
		fs.BoolVar(&cfg.Cheat, "cheat", cfg.Cheat, "start with cheat mode on")
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
		fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "SQLite roll journal path (empty = disabled)")
		fs.StringVar(&cfg.Script, "script", cfg.Script, "Lua script driving the die instead of -n throws")
		fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language tag for number formatting")
		fs.BoolVar(&cfg.History, "history", cfg.History, "also report every journaled roll")
		fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "print every face")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Script) == "" && c.Count < 1 {
		return ErrInvalidCount
	}
	if c.History && strings.TrimSpace(c.JournalPath) == "" {
		return ErrHistoryNeedsJournal
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return fmt.Errorf("invalid language %q: %w", c.Lang, err)
	}
	return nil
}

// Run executes the roll command, writing the report to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if out == nil {
		out = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRoll, func(ctx context.Context) error {
		return run(ctx, cfg, out, nil)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer, seedGenerator func() (int64, error)) error {
	table, err := app.Open(ctx, app.Options{
		Seed:          cfg.Seed,
		Cheat:         cfg.Cheat,
		JournalPath:   cfg.JournalPath,
		SeedGenerator: seedGenerator,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := table.Close(); err != nil {
			log.Printf("close journal: %v", err)
		}
	}()

	printer := newPrinter(cfg.Lang)

	if path := strings.TrimSpace(cfg.Script); path != "" {
		if err := script.RunFile(ctx, table.Session, path, out); err != nil {
			return err
		}
	} else {
		for i := 0; i < cfg.Count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			face, err := table.Session.Roll(ctx)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				printer.Fprintf(out, "%d\n", face)
			}
		}
	}

	state := table.Session.State()
	writeSummary(printer, out, table, state)
	fair, loaded := table.Session.ModeTally()
	writeModeDistribution(printer, out, "fair", fair, false)
	writeModeDistribution(printer, out, "loaded", loaded, true)

	if cfg.History {
		if table.Journal == nil {
			return ErrHistoryNeedsJournal
		}
		fair, loaded, err := table.Journal.ModeFaceCounts(ctx, "")
		if err != nil {
			return fmt.Errorf("journal history: %w", err)
		}
		printer.Fprintf(out, "\njournal: %d rolls\n", fair.Total()+loaded.Total())
		writeModeDistribution(printer, out, "fair", fair, false)
		writeModeDistribution(printer, out, "loaded", loaded, true)
	}
	return nil
}
