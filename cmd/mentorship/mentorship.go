package main

import (
	"github.com/spf13/cobra"

	"github.com/alem-hub/mentorship-engine/internal/application/command"
	"github.com/alem-hub/mentorship-engine/internal/application/query"
)

func newRequestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "request <mentee-id>",
		Short: "Match a mentee with the best available mentor or queue them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.requestMentor.Handle(cmd.Context(), command.RequestMentorCommand{MenteeID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newCompleteCmd(c *cli) *cobra.Command {
	var callerID string

	cmd := &cobra.Command{
		Use:   "complete <mentorship-id>",
		Short: "Complete an active mentorship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.endMentorship.Complete(cmd.Context(), command.CompleteMentorshipCommand{
				MentorshipID: args[0],
				CallerID:     callerID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&callerID, "as", "", "user ending the mentorship (mentor or mentee)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func newCancelCmd(c *cli) *cobra.Command {
	var callerID, reason string

	cmd := &cobra.Command{
		Use:   "cancel <mentorship-id>",
		Short: "Cancel an active mentorship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.endMentorship.Cancel(cmd.Context(), command.CancelMentorshipCommand{
				MentorshipID: args[0],
				CallerID:     callerID,
				Reason:       reason,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&callerID, "as", "", "user ending the mentorship (mentor or mentee)")
	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func newProcessQueueCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "process-queue",
		Short: "Retry matching for the oldest queued mentees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.waitlist.Process(cmd.Context(), command.ProcessWaitlistCommand{Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "batch size (0 = default of 10)")
	return cmd
}

func newExpireQueueCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "expire-queue",
		Short: "Remove waitlist entries older than policy.waitlist_ttl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.waitlist.Expire(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newPositionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "position <user-id>",
		Short: "Show the waitlist position of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.queuePosition.Handle(cmd.Context(), query.GetQueuePositionQuery{UserID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
