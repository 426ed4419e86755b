package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newJobsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect or run the worker's scheduled jobs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the jobs the worker would schedule with this configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := c.application(cmd.Context())
				if err != nil {
					return err
				}
				sched, err := buildScheduler(c, a)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSCHEDULE\tENABLED\tDESCRIPTION")
				for _, job := range sched.ListJobs() {
					fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", job.Name, job.Schedule, job.Enabled, job.Description)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "run <name>",
			Short: "Run one job now, ignoring its schedule",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd.Context())
				if err != nil {
					return err
				}
				sched, err := buildScheduler(c, a)
				if err != nil {
					return err
				}

				res, err := sched.RunNow(cmd.Context(), args[0])
				if res == nil {
					return err
				}
				out := struct {
					Job      string `json:"job"`
					Success  bool   `json:"success"`
					Duration string `json:"duration"`
					Error    string `json:"error,omitempty"`
				}{
					Job:      res.JobName,
					Success:  res.Success,
					Duration: res.Duration.Round(time.Millisecond).String(),
				}
				if err != nil {
					out.Error = err.Error()
				}
				if perr := printJSON(cmd.OutOrStdout(), out); perr != nil {
					return perr
				}
				return err
			},
		},
	)
	return cmd
}
