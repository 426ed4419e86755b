// Package main is the entry point of the mentorship engine: the background
// worker, schema migrations and operator commands for matching, the
// waitlist and the mentor directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alem-hub/mentorship-engine/config"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

// Store backends selectable with --store.
const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

// cli holds state shared by every subcommand of one invocation.
type cli struct {
	cfgFile string
	store   string

	cfg *config.Config
	log *logger.Logger
	app *app
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "mentorship",
		Short:         "University mentorship matching and waitlist engine",
		Long:          "Matches mentees with eligible senior mentors by shared interests, keeps a FIFO waitlist for unmatched mentees and suggests peer connections.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: $MENTORSHIP_CONFIG)")
	root.PersistentFlags().StringVar(&c.store, "store", storePostgres, "storage backend: postgres or memory")

	root.AddCommand(
		newWorkerCmd(c),
		newMigrateCmd(c),
		newJobsCmd(c),
		newRequestCmd(c),
		newCompleteCmd(c),
		newCancelCmd(c),
		newProcessQueueCmd(c),
		newExpireQueueCmd(c),
		newPositionCmd(c),
		newMentorsCmd(c),
		newEligibilityCmd(c),
		newMyCmd(c),
		newSuggestCmd(c),
		newStatsCmd(c),
		newProfileCmd(c),
		newConnectCmd(c),
	)
	return root
}

func (c *cli) init() error {
	if c.store != storePostgres && c.store != storeMemory {
		return fmt.Errorf("unknown store %q", c.store)
	}
	if c.cfg != nil {
		return nil
	}

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.log == nil {
		opts := cfg.LoggerOptions()
		opts.Output = os.Stderr
		c.log = logger.New(opts).With(logger.String("app", cfg.App.Name))
	}
	return nil
}

// application builds the engine on first use.
func (c *cli) application(ctx context.Context) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}

	var (
		a   *app
		err error
	)
	switch c.store {
	case storeMemory:
		a, err = newMemoryApp(c.cfg, c.log)
	default:
		a, err = newPostgresApp(ctx, c.cfg, c.log)
	}
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	c := &cli{}
	err := newRootCmd(c).Execute()
	if c.app != nil {
		c.app.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
