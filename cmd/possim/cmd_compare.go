package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stakelab/possim"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every selection rule from one shared pool and compare outcomes",
		Long: `Run one simulation per selection rule, all starting from the same
initial stake vector and corrupted set, and print a comparison table of
the final decentralization metrics.

Example:
  possim compare --epochs 50000 --peers 1000 -o compare.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadParameters(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("comparing selection rules",
				"rules", len(possim.Algorithms()),
				"epochs", params.NEpochs,
				"peers", params.NPeers,
				"seed", params.Seed)

			start := time.Now()
			results, err := possim.CompareAlgorithms(ctx, params, nil)
			if err != nil {
				return err
			}
			slog.Info("comparison finished", "elapsed", time.Since(start).Round(time.Millisecond))

			printComparison(results)

			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := writeComparisonCSV(path, results); err != nil {
					return err
				}
				slog.Info("comparison written", "path", path)
			}

			for _, res := range results {
				if res.Err != nil {
					return fmt.Errorf("%s: %w", res.Algorithm, res.Err)
				}
			}
			return nil
		},
	}
	addRunFlags(cmd)
	return cmd
}

func printComparison(results []possim.RunResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tGINI\tNAKAMOTO\tHHI\tPOPULATION\tELAPSED\tSTATUS")
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		var hhi float64
		if res.Output != nil {
			if n := res.Output.Epochs(); n > 0 {
				hhi = res.Output.HHI[n-1]
			}
		}
		fmt.Fprintf(w, "%s\t%.4f\t%d\t%.4f\t%d\t%s\t%s\n",
			res.Algorithm, res.FinalGini, res.FinalNakamoto, hhi,
			res.FinalPopulation, res.Elapsed.Round(time.Millisecond), status)
	}
	w.Flush()
}

// writeComparisonCSV dumps every run's Gini series side by side, one column
// per rule, padded rows for runs that aborted early.
func writeComparisonCSV(path string, results []possim.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 0, len(results)+1)
	header = append(header, "epoch")
	maxEpochs := 0
	for _, res := range results {
		header = append(header, string(res.Algorithm))
		if res.Output != nil && res.Output.Epochs() > maxEpochs {
			maxEpochs = res.Output.Epochs()
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(results)+1)
	for i := 0; i < maxEpochs; i++ {
		row[0] = strconv.Itoa(i)
		for j, res := range results {
			if res.Output != nil && i < res.Output.Epochs() {
				row[j+1] = strconv.FormatFloat(res.Output.Gini[i], 'f', 6, 64)
			} else {
				row[j+1] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
