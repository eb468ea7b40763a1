package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"predtrack/config"
	"predtrack/internal/store"
)

// Set via ldflags at build time
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	rootCmd := &cobra.Command{
		Use:   "predtrack",
		Short: "Track, sign and resolve personal predictions",
		Long: "predtrack manages prediction records stored as markdown files with\n" +
			"frontmatter: authoring, belief-revision updates, content hashing and\n" +
			"PGP signing, market-based resolution, and summary statistics.",
		SilenceUsage: true,
	}
	rootCmd.Version = version

	rootCmd.AddCommand(newCmd(cfg))
	rootCmd.AddCommand(listCmd(cfg))
	rootCmd.AddCommand(showCmd(cfg))
	rootCmd.AddCommand(updateCmd(cfg))
	rootCmd.AddCommand(signCmd(cfg))
	rootCmd.AddCommand(verifyCmd(cfg))
	rootCmd.AddCommand(resolveCmd(cfg))
	rootCmd.AddCommand(statsCmd(cfg))
	rootCmd.AddCommand(serveCmd(cfg))
	rootCmd.AddCommand(migrateCmd(cfg))
	rootCmd.AddCommand(auditCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) *store.Store {
	return store.New(cfg.RecordsDir)
}
