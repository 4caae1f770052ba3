package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"todo-ai-backend/internal/config"
	"todo-ai-backend/internal/db"
	"todo-ai-backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "todo-api",
	Short:         "AI todo backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// bootstrap loads .env and the environment, installs the logger and opens
// the database.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *sql.DB, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	l := logger.New("todo-api", cfg.LogLevel)
	log.Logger = l

	database, err := db.Connect(ctx, cfg.ConnString())
	if err != nil {
		return nil, l, nil, err
	}
	l.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to postgres")
	return cfg, l, database, nil
}
