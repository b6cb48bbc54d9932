package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"diagnostics-backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diagnostics-api",
		Short: "Diagnostics clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create store indexes (MongoDB) or migrate tables (MySQL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			repos, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer repos.Backend.Close(context.Background())

			if err := repos.Backend.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
			fmt.Printf("Schema ready on %s store.\n", cfg.StoreDriver)
			return nil
		},
	}
}

// loadConfig reads .env (if present) and the environment.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("config: %w", err)
	}
	logger := newLogger(cfg)
	if envErr != nil {
		logger.Debug().Msg(".env file not found, using process environment")
	}
	if cfg.UsingDevSecret {
		logger.Warn().Msg("JWT_SECRET not set, using the development signing secret")
	}
	return cfg, logger, nil
}
