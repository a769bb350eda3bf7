package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/ingest"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/platform/sqlite"
	"github.com/phrazzld/repeat/internal/service/card_review"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds what the commands share. The zero value is not usable; see
// newCLI.
type cli struct {
	out    io.Writer
	errOut io.Writer

	// newPrompter opens the interactive prompt used by drill.
	newPrompter func() prompter
	now         func() time.Time
	noColor     bool

	db      *sql.DB
	logger  *slog.Logger
	reviews card_review.CardReviewService
	loader  *ingest.Loader
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:         out,
		errOut:      errOut,
		newPrompter: newLinerPrompter,
		now:         time.Now,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:   "repeat",
		Short: "Drill markdown flashcards with spaced repetition",
		Long: `repeat schedules reviews of markdown flashcards with the FSRS algorithm.

A card is a markdown file holding either a question and an answer:

  Q: What is the capital of France?
  A: Paris

or a cloze line whose [bracketed] part is hidden:

  C: The capital of France is [Paris].

Examples:
  repeat check notes/
  repeat drill notes/ more-cards.md
  repeat stats`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd, v)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.String("db", "", "path of the SQLite database (default $XDG_DATA_HOME/repeat/cards.db)")
	flags.String("log-level", config.DefaultCLILogLevel, "log level: debug, info, warn or error")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	_ = v.BindPFlag("db_path", flags.Lookup("db"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(newCheckCmd(c), newDrillCmd(c), newStatsCmd(c))
	return root
}

// open loads configuration and opens the store. Flags left unset fall back
// to the environment, then config.yaml, then defaults.
func (c *cli) open(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.LoadCLI(v)
	if err != nil {
		return err
	}

	c.logger, err = logger.Setup(logger.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: c.errOut,
	})
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	c.db, err = sqlite.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.DBPath, err)
	}
	c.logger.Debug("database opened", slog.String("path", cfg.DBPath))

	c.reviews = card_review.NewCardReviewService(
		card_review.DBTxRunner(c.db),
		sqlite.NewCardStore(c.db, c.logger),
		sqlite.NewPerformanceStore(c.db, c.logger),
		srs.NewServiceWithParams(cfg.SRS.Params()),
		c.logger,
		card_review.WithClock(c.now),
	)
	c.loader = ingest.NewLoader(c.logger, ingest.DefaultConcurrency)
	return nil
}

func (c *cli) close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// register loads the cards under paths into the local collection.
func (c *cli) register(cmd *cobra.Command, paths []string) (*ingest.Result, int, error) {
	result, err := c.loader.Load(cmd.Context(), domain.LocalUserID, paths)
	if err != nil {
		return nil, 0, err
	}
	inserted, err := c.reviews.RegisterCards(cmd.Context(), domain.LocalUserID, result.Cards)
	if err != nil {
		return nil, 0, err
	}
	return result, inserted, nil
}
