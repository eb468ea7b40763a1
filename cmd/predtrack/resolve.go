package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"predtrack/config"
	"predtrack/internal/database"
	"predtrack/internal/markets"
	"predtrack/internal/notify"
	"predtrack/internal/reconcile"
	"predtrack/models"
)

// resolveCmd is the daily batch entry point an external cron invokes. It
// prints the run summary as JSON so schedulers can record it.
func resolveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Check open auto-resolvable records against their markets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := reconcile.New(openStore(cfg), markets.NewRegistry(cfg), resolutionSinks(cfg)...)
			summary, err := r.Run(context.Background())
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(summary)
		},
	}
}

// resolutionSinks wires the optional observers: a Postgres audit log when
// DB_HOST is configured and a Telegram announcement when a bot token is.
// A sink that fails to initialize is skipped with a logged error rather than
// blocking resolution.
func resolutionSinks(cfg *config.Config) []models.ResolutionSink {
	var sinks []models.ResolutionSink

	if cfg.DBHost != "" {
		db, err := database.New(database.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Error().Err(err).Msg("Audit database unavailable, continuing without it")
		} else {
			sinks = append(sinks, db)
		}
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("Telegram notifier unavailable, continuing without it")
		} else {
			sinks = append(sinks, notifier)
		}
	}

	return sinks
}

func auditCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Print recent rows from the Postgres resolution audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBHost == "" {
				return fmt.Errorf("DB_HOST is not configured")
			}
			db, err := database.New(database.ConnectionParams{
				Host:     cfg.DBHost,
				Port:     cfg.DBPort,
				User:     cfg.DBUser,
				Password: cfg.DBPassword,
				DBName:   cfg.DBName,
				SSLMode:  cfg.DBSSLMode,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.RecentResolutions(context.Background(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %-28s %-10s %s/%s  finalProb=%.2f\n",
					e.RecordedAt.Format("2006-01-02 15:04"), e.RecordID, e.Status, e.Provider, e.Slug, e.FinalProb)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to print")
	return cmd
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move flat-layout records into year directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moved, err := openStore(cfg).Migrate()
			if err != nil {
				return err
			}
			fmt.Printf("Migrated %d record(s)\n", moved)
			return nil
		},
	}
}
