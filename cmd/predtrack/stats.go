package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"predtrack/config"
	"predtrack/internal/server"
	"predtrack/internal/stats"
)

func statsCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics over all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := openStore(cfg).List()
			if err != nil {
				return err
			}
			s := stats.Compute(records)

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(s)
			}

			fmt.Printf("Total:     %d\n", s.Total)
			fmt.Printf("Resolved:  %d (%d correct, %d incorrect)\n", s.Resolved, s.Correct, s.Incorrect)
			fmt.Printf("Pending:   %d\n", s.Pending)
			if s.Accuracy != nil {
				fmt.Printf("Accuracy:  %.1f%%\n", *s.Accuracy*100)
				fmt.Printf("Brier:     %.3f\n", *s.BrierScore)
			} else {
				fmt.Println("Accuracy:  n/a (nothing resolved yet)")
			}
			fmt.Printf("Buckets:   low %d / medium %d / high %d\n",
				s.ConfidenceBuckets.Low, s.ConfidenceBuckets.Medium, s.ConfidenceBuckets.High)

			if len(s.CategoryCounts) > 0 {
				cats := make([]string, 0, len(s.CategoryCounts))
				for c := range s.CategoryCounts {
					cats = append(cats, c)
				}
				sort.Strings(cats)
				fmt.Println("Categories:")
				for _, c := range cats {
					fmt.Printf("  %-20s %d\n", c, s.CategoryCounts[c])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the stats object as JSON")
	return cmd
}

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only stats API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(openStore(cfg)).ListenAndServe(cfg.HTTPAddr)
		},
	}
}
