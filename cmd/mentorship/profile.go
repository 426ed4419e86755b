package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alem-hub/mentorship-engine/internal/application/command"
	"github.com/alem-hub/mentorship-engine/internal/domain/social"
)

func newProfileCmd(c *cli) *cobra.Command {
	var (
		name, university, seniority string
		interests                   []string
	)

	cmd := &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Create or update a profile and its interests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}

			upsert := command.UpsertProfileCommand{
				UserID:     args[0],
				FullName:   name,
				University: university,
				Seniority:  seniority,
			}
			// Interests are left untouched unless the flag is given.
			if cmd.Flags().Changed("interests") {
				upsert.Interests = append([]string{}, interests...)
			}

			res, err := a.upsertProfile.Handle(cmd.Context(), upsert)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&university, "university", "", "university")
	cmd.Flags().StringVar(&seniority, "seniority", "", `seniority, e.g. "4" or "4º"`)
	cmd.Flags().StringSliceVar(&interests, "interests", nil, "comma separated interests")
	return cmd
}

func newConnectCmd(c *cli) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "connect <requester-id> <addressee-id>",
		Short: "Record a friendship request between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			err = a.connectUsers.Handle(cmd.Context(), command.ConnectUsersCommand{
				RequesterID: args[0],
				AddresseeID: args[1],
				Status:      social.ConnectionStatus(status),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s\n", args[0], args[1], status)
			return err
		},
	}
	cmd.Flags().StringVar(&status, "status", string(social.ConnectionStatusAccepted), "pending, accepted or rejected")
	return cmd
}
