package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hermes/internal/daemon"
	"hermes/internal/logging"
	"hermes/internal/notifications"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background directory sync and metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			s, closeFn, err := ctx.openStation(signalCtx, logger)
			if err != nil {
				logger.Error("open station", logging.Error(err))
				return err
			}
			defer closeFn()

			d, err := daemon.New(cfg, s, notifications.NewService(cfg), logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			defer d.Stop()

			<-signalCtx.Done()
			logger.Info("hermes daemon shutting down")
			return nil
		},
	}
}
