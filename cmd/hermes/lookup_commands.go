package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hermes/internal/ledger"
	"hermes/internal/resolver"
	"hermes/internal/station"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <code>...",
		Short: "Resolve package codes against the recipient directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStation(cmd, func(s *station.Station) error {
				results := make([]resolver.Result, 0, len(args))
				for _, arg := range args {
					results = append(results, s.Resolve(arg))
				}
				return ctx.emit(cmd, results, func() string { return renderMatches(results) })
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Search recorded packages by code, name or zone",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return ctx.withStation(cmd, func(s *station.Station) error {
				hits, err := s.Search(cmd.Context(), term)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, hits, func() string { return renderHits(hits) })
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded packages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStation(cmd, func(s *station.Station) error {
				records, err := s.Packages(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, records, func() string { return renderRecords(records) })
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (default intake.fetch_limit)")
	return cmd
}

func newIntakeCommand(ctx *commandContext) *cobra.Command {
	var zone string
	cmd := &cobra.Command{
		Use:   "intake <code>...",
		Short: "Record packages in a zone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if zone == "" {
				return errors.New("--zone is required")
			}
			return ctx.withStation(cmd, func(s *station.Station) error {
				type intake struct {
					Record ledger.Record   `json:"record"`
					Match  resolver.Result `json:"match"`
				}
				done := make([]intake, 0, len(args))
				for _, code := range args {
					record, match, err := s.UpsertPackage(cmd.Context(), code, zone)
					if err != nil {
						return fmt.Errorf("record %s: %w", code, err)
					}
					done = append(done, intake{Record: record, Match: match})
				}
				return ctx.emit(cmd, done, func() string {
					records := make([]ledger.Record, 0, len(done))
					for _, d := range done {
						records = append(records, d.Record)
					}
					return renderRecords(records)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&zone, "zone", "z", "", "Storage zone")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>...",
		Short: "Remove packages from the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStation(cmd, func(s *station.Station) error {
				deleted := map[string]bool{}
				for _, code := range args {
					ok, err := s.DeletePackage(cmd.Context(), code)
					if err != nil {
						return err
					}
					deleted[code] = ok
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, deleted)
				}
				out := cmd.OutOrStdout()
				for _, code := range args {
					if deleted[code] {
						fmt.Fprintf(out, "Deleted %s\n", code)
					} else {
						fmt.Fprintf(out, "%s not found\n", code)
					}
				}
				return nil
			})
		},
	}
}
