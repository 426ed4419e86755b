package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alem-hub/mentorship-engine/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), c, func(m *postgres.Migrator) error {
					ran, err := m.Migrate(cmd.Context())
					if err != nil {
						return err
					}
					c.log.Info("migrations applied", logger.Int("count", ran))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), c, func(m *postgres.Migrator) error {
					return m.Rollback(cmd.Context())
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd.Context(), c, func(m *postgres.Migrator) error {
					migrations, err := m.Status(cmd.Context())
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
					for _, mig := range migrations {
						applied := "-"
						if mig.IsApplied {
							applied = mig.AppliedAt.Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(w, "%d\t%s\t%s\n", mig.Version, mig.Name, applied)
					}
					return w.Flush()
				})
			},
		},
	)
	return cmd
}

// withMigrator connects directly, bypassing the engine wiring so migrations
// can run against an empty database.
func withMigrator(ctx context.Context, c *cli, fn func(*postgres.Migrator) error) error {
	if c.cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = c.cfg.Database.URL

	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(postgres.NewMigrator(conn))
}
