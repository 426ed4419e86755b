package main

import (
	"github.com/spf13/cobra"

	"github.com/alem-hub/mentorship-engine/internal/application/query"
)

func newMentorsCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "mentors",
		Short: "List eligible mentors with free slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.mentors.Handle(cmd.Context(), query.ListEligibleMentorsQuery{Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of mentors (0 = all)")
	return cmd
}

func newEligibilityCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "eligibility <user-id>",
		Short: "Explain whether a user can take a new mentee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.eligibility.Handle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newMyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "my <user-id>",
		Short: "Show the active mentor and mentees of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.mine.Handle(cmd.Context(), query.GetMyMentorshipsQuery{UserID: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newSuggestCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <user-id>",
		Short: "Suggest peers sharing the most interests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.suggestions.Handle(cmd.Context(), query.SuggestConnectionsQuery{UserID: args[0], Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum suggestions (0 = 10, capped at 50)")
	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show active mentorships, queue length and available mentors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.stats.Handle(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
