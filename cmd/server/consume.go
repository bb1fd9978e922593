package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movies-api/internal/config"
	"github.com/iliyamo/movies-api/internal/logger"
	"github.com/iliyamo/movies-api/internal/queue"
)

func newConsumeCommand() *cobra.Command {
	var logDir string
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append movie events from RabbitMQ to a log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The consumer needs no database, so it reads only its own settings.
			logger.Init(os.Getenv("LOG_LEVEL"))
			if logDir == "" {
				logDir = os.Getenv("EVENTS_LOG_DIR")
			}
			if logDir == "" {
				logDir = "logs"
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := &queue.Consumer{URL: config.RabbitMQURL(), LogDir: logDir}
			slog.Info("starting movie event consumer", "log_dir", logDir)
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Directory for movie_events.log (default $EVENTS_LOG_DIR or logs)")
	return cmd
}
