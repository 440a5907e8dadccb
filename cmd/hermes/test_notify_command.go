package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hermes/internal/daemon"
	"hermes/internal/station"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStation(cmd, func(s *station.Station) error {
				d, err := daemon.New(cfg, s, nil, nil)
				if err != nil {
					return err
				}
				sent, message, err := d.TestNotification(cmd.Context())
				if message != "" {
					fmt.Fprintln(cmd.OutOrStdout(), message)
				} else if !sent {
					fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
				}
				return err
			})
		},
	}
}
