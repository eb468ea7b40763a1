package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"predtrack/config"
	"predtrack/internal/integrity"
	"predtrack/internal/trail"
	"predtrack/models"
)

func newCmd(cfg *config.Config) *cobra.Command {
	var (
		statement   string
		confidence  int
		deadline    string
		categories  []string
		visibility  string
		evidence    string
		provider    string
		slug        string
		autoResolve bool
		noSign      bool
	)

	cmd := &cobra.Command{
		Use:   "new <slug>",
		Short: "Author a new prediction record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.ValidDate(deadline) {
				return fmt.Errorf("--deadline must be %s", models.DateFormat)
			}
			rec := &models.Record{
				Statement:  statement,
				Confidence: confidence,
				Deadline:   deadline,
				Categories: categories,
				Visibility: visibility,
				Created:    models.Today(),
				Evidence:   evidence,
			}
			if provider != "" || slug != "" {
				if provider == "" || slug == "" {
					return fmt.Errorf("--market-provider and --market-slug must be set together")
				}
				rec.Market = &models.MarketLink{
					Provider:    provider,
					Slug:        slug,
					AutoResolve: autoResolve,
				}
			}

			s := openStore(cfg)
			if !noSign {
				signer, err := integrity.NewSignerFromKeyPath(cfg.PGPKeyPath, cfg.PGPPassphrase)
				if err != nil {
					return err
				}
				if err := integrity.AttachProvenance(rec, signer, cfg.RecordsDir); err != nil {
					return err
				}
			}
			if err := s.Create(rec, args[0]); err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", rec.ID, rec.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&statement, "statement", "", "The claim being predicted")
	cmd.Flags().IntVar(&confidence, "confidence", 50, "Stated probability (0-100) that the statement is true")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Evaluation date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Category tag (repeatable)")
	cmd.Flags().StringVar(&visibility, "visibility", models.VisibilityPublic, "public or private")
	cmd.Flags().StringVar(&evidence, "evidence", "", "Supporting reasoning for the record body")
	cmd.Flags().StringVar(&provider, "market-provider", "", "Linked market provider (polymarket, kalshi)")
	cmd.Flags().StringVar(&slug, "market-slug", "", "Linked market slug or ticker")
	cmd.Flags().BoolVar(&autoResolve, "auto-resolve", false, "Let the reconciler resolve this record from the market")
	cmd.Flags().BoolVar(&noSign, "no-sign", false, "Skip hash stamping and signing")
	_ = cmd.MarkFlagRequired("statement")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func listCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all prediction records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := openStore(cfg).List()
			if err != nil {
				return err
			}
			for _, rec := range records {
				state := "open"
				if rec.Resolved {
					state = rec.Status
				}
				fmt.Printf("%-28s %3d%%  %-10s  deadline %s  %s\n",
					rec.ID, rec.Confidence, state, rec.Deadline, rec.Statement)
			}
			return nil
		},
	}
}

func showCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := openStore(cfg).Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("id:         %s\n", rec.ID)
			fmt.Printf("statement:  %s\n", rec.Statement)
			fmt.Printf("confidence: %d%%\n", rec.Confidence)
			fmt.Printf("deadline:   %s\n", rec.Deadline)
			fmt.Printf("created:    %s\n", rec.Created)
			if len(rec.Categories) > 0 {
				fmt.Printf("categories: %v\n", rec.Categories)
			}
			if rec.Market != nil {
				fmt.Printf("market:     %s/%s (autoResolve=%t)\n",
					rec.Market.Provider, rec.Market.Slug, rec.Market.AutoResolve)
			}
			if rec.Resolved {
				fmt.Printf("resolved:   %s on %s\n", rec.Status, rec.ResolvedDate)
				fmt.Printf("resolution: %s\n", rec.Resolution)
			}
			if rec.Hash != "" {
				fmt.Printf("hash:       %s\n", rec.Hash)
			}
			for i, u := range rec.Updates {
				fmt.Printf("update %d:   %s  %d%% -> %d%%  %s\n",
					i+1, u.Timestamp, u.ConfidenceBefore, u.ConfidenceAfter, u.Reasoning)
			}
			if rec.Evidence != "" {
				fmt.Printf("\n%s\n", rec.Evidence)
			}
			return nil
		},
	}
}

func updateCmd(cfg *config.Config) *cobra.Command {
	var (
		confidence int
		reasoning  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Append a belief-revision entry to a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openStore(cfg)
			rec, err := s.Load(args[0])
			if err != nil {
				return err
			}

			commit, err := integrity.CurrentCommit(cfg.RecordsDir)
			if err != nil {
				log.Warn().Err(err).Msg("No git commit available for update entry")
				commit = ""
			}
			if err := trail.Append(rec, reasoning, confidence, commit); err != nil {
				return err
			}
			if err := s.Save(rec); err != nil {
				return err
			}
			fmt.Printf("Updated %s: confidence now %d%% (%d updates)\n", rec.ID, rec.Confidence, len(rec.Updates))
			return nil
		},
	}

	cmd.Flags().IntVar(&confidence, "confidence", 0, "New confidence (0-100)")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "Why the confidence changed")
	_ = cmd.MarkFlagRequired("confidence")
	_ = cmd.MarkFlagRequired("reasoning")
	return cmd
}

func signCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <id>",
		Short: "Stamp a record with its hash, git commit and PGP signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openStore(cfg)
			rec, err := s.Load(args[0])
			if err != nil {
				return err
			}
			signer, err := integrity.NewSignerFromKeyPath(cfg.PGPKeyPath, cfg.PGPPassphrase)
			if err != nil {
				return err
			}
			if err := integrity.AttachProvenance(rec, signer, cfg.RecordsDir); err != nil {
				return err
			}
			if err := s.Save(rec); err != nil {
				return err
			}
			fmt.Printf("Signed %s\nhash: %s\n", rec.ID, rec.Hash)
			return nil
		},
	}
}

func verifyCmd(cfg *config.Config) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "verify [id]",
		Short: "Recompute content hashes and compare against stored ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := openStore(cfg)

			var records []*models.Record
			if all {
				var err error
				if records, err = s.List(); err != nil {
					return err
				}
			} else {
				if len(args) != 1 {
					return fmt.Errorf("provide a record id or --all")
				}
				rec, err := s.Load(args[0])
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			failed := 0
			for _, rec := range records {
				if rec.Hash == "" {
					fmt.Printf("%-28s unhashed\n", rec.ID)
					continue
				}
				if ok, expected := integrity.Verify(rec); !ok {
					failed++
					fmt.Printf("%-28s MISMATCH\n  stored:   %s\n  computed: %s\n", rec.ID, rec.Hash, expected)
				} else {
					fmt.Printf("%-28s ok\n", rec.ID)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d record(s) failed verification", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Verify every record")
	return cmd
}
