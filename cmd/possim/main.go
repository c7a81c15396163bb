package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "possim",
		Short: "Proof-of-stake validator selection simulator",
		Long: `possim simulates proof-of-stake validator selection over long horizons.

It runs a configurable pool of validators through epochs of weighted
selection, rewards, slashing and churn, and records inequality metrics
(Gini, Nakamoto coefficient, HHI) per epoch. Eight selection rules are
available, including a feedback-stabilized rule that steers the pool
toward a target Gini coefficient.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(
				tint.NewHandler(os.Stderr, &tint.Options{
					Level:      level,
					TimeFormat: "15:04:05",
				}),
			))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML parameter file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newCompareCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("possim version %s\n", version)
		},
	}
}
