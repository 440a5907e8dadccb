package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hermes/internal/daemon"
	"hermes/internal/snapshot"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one directory sync cycle now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, closeFn, err := ctx.openStation(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer closeFn()

			d, err := daemon.New(cfg, s, nil, ctx.fileLogger(cfg))
			if err != nil {
				return err
			}
			if err := d.Lock(); err != nil {
				return fmt.Errorf("%w (stop the daemon or use /sync in the console)", err)
			}
			defer d.Unlock()

			result, err := s.Sync(cmd.Context())
			if err != nil {
				return err
			}
			return ctx.emit(cmd, result, func() string { return describeSync(result) })
		},
	}
}

func describeSync(result snapshot.Result) string {
	var b strings.Builder
	file := "-"
	if result.File != nil {
		file = result.File.Name
	}
	switch result.Outcome {
	case snapshot.OutcomeApplied:
		fmt.Fprintf(&b, "Applied %s: %d recipients", file, result.EntryCount)
		if result.Skipped > 0 || result.Duplicates > 0 {
			fmt.Fprintf(&b, " (%d rows skipped, %d duplicate codes)", result.Skipped, result.Duplicates)
		}
	case snapshot.OutcomeUnchanged:
		fmt.Fprintf(&b, "%s unchanged (%s); %d recipients loaded", file, result.Reason, result.EntryCount)
	case snapshot.OutcomeEmpty:
		b.WriteString("No directory export found in the remote collection")
	default:
		fmt.Fprintf(&b, "Sync %s", result.Outcome)
	}
	return b.String()
}
