package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hermes/internal/station"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show directory, sync and ledger status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStation(cmd, func(s *station.Station) error {
				status, err := s.Status(cmd.Context())
				if err != nil {
					return err
				}
				colorize := shouldColorize(cmd.OutOrStdout())
				return ctx.emit(cmd, status, func() string { return renderStatus(status, colorize) })
			})
		},
	}
}

func renderStatus(status station.Status, colorize bool) string {
	lines := renderSectionHeader("Station", colorize)

	if status.RemoteConfigured {
		lines = append(lines, renderStatusLine("Remote", statusOK, status.RemoteKind, colorize))
	} else {
		lines = append(lines, renderStatusLine("Remote", statusWarn, "not configured", colorize))
	}

	switch {
	case status.DirectoryEntries > 0:
		lines = append(lines, renderStatusLine("Directory", statusOK, fmt.Sprintf("%d recipients", status.DirectoryEntries), colorize))
	default:
		lines = append(lines, renderStatusLine("Directory", statusError, "empty; run hermes sync", colorize))
	}

	snap := status.LastSnapshot
	if snap.IsZero() {
		lines = append(lines, renderStatusLine("Last snapshot", statusWarn, "none applied yet", colorize))
	} else {
		lines = append(lines, renderStatusLine("Last snapshot", statusInfo,
			fmt.Sprintf("%s applied %s", snap.Href, formatTime(snap.AppliedAt)), colorize))
	}

	lines = append(lines, renderStatusLine("Packages", statusInfo, fmt.Sprintf("%d recorded", status.Packages), colorize))
	lines = append(lines, renderStatusLine("Database", statusInfo, status.DatabasePath, colorize))
	return strings.Join(lines, "\n")
}
