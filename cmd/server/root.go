package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movies-api/internal/config"
	"github.com/iliyamo/movies-api/internal/database"
	"github.com/iliyamo/movies-api/internal/logger"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "movies-api",
		Short:         "Movies CRUD API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newConsumeCommand())
	rootCmd.AddCommand(newTokenCommand())
	return rootCmd
}

// loadConfig reads the environment and installs the logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func openDB(ctx context.Context, cfg config.Config) (*database.DB, error) {
	return database.Open(ctx, database.Options{
		Dialect:  database.Dialect(cfg.DBDriver),
		DSN:      cfg.DBDSN,
		User:     cfg.DBUser,
		Pass:     cfg.DBPass,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		MaxConns: cfg.DBMaxConns,
	})
}
