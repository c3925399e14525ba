package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rpupo63/reelbyte-backend/config"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "reelbyte",
	Short: "Gig and project catalogue API",
	Long:  `Serves the public gig and project listings, the owner endpoints behind them, and the outbox that feeds search and messaging.`,
	// Running with no subcommand starts the API, like the serve command.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the outbox dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or alter tables to match the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		if err := models.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("migration complete")

		if generate, _ := cmd.Flags().GetBool("generate"); generate {
			out, _ := cmd.Flags().GetString("out")
			log.Info().Str("out", out).Msg("generating query helpers")
			models.GenerateQueries(db, out)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List database columns that no model field maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		n, err := models.ColumnMismatchReport(db, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%d unmapped columns", n)
		}
		return nil
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Deliver pending outbox events to the configured sinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")
		return runDispatch(cmd.Context(), once)
	},
}

func init() {
	migrateCmd.Flags().Bool("generate", false, "also generate typed query helpers")
	migrateCmd.Flags().String("out", "./query", "output directory for generated query helpers")
	dispatchCmd.Flags().Bool("once", false, "process a single batch and exit")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dispatchCmd)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// connect loads the layered configuration and opens the primary database.
func connect(ctx context.Context) (config.Settings, *gorm.DB, error) {
	c, err := config.Load(ctx)
	if err != nil {
		return config.Settings{}, nil, fmt.Errorf("load config: %w", err)
	}
	settings := config.NewSettings(c)

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := database.Open(ctx, settings)
	if err != nil {
		return settings, nil, err
	}
	return settings, db, nil
}
