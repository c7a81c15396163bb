package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stakelab/possim"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and report the final metrics",
		Long: `Run a single simulation under one selection rule.

Available rules: weighted, opposite-weighted, log-weighted,
log-weighted-uniform, srsw-weighted, desw, gini-stabilized, random.

Example:
  possim run --algorithm gini-stabilized --epochs 50000 --target-gini 0.3 -o run.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadParameters(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			rng := rand.New(rand.NewSource(params.Seed))
			initial, err := possim.GeneratePeers(rng, params.NPeers,
				params.InitialStakeVolume, params.InitialDistribution, params.InitialGini)
			if err != nil {
				return err
			}
			corrupted := possim.SampleCorrupted(rng, params.NPeers, params.NCorrupted)

			slog.Info("starting run",
				"algorithm", params.Algorithm,
				"epochs", params.NEpochs,
				"peers", params.NPeers,
				"corrupted", len(corrupted),
				"initial_gini", fmt.Sprintf("%.4f", possim.Gini(initial)),
				"seed", params.Seed)

			sim, err := possim.NewSimulation(initial, corrupted, params)
			if err != nil {
				return err
			}
			progressEvery := params.NEpochs / 10
			if progressEvery == 0 {
				progressEvery = 1
			}

			start := time.Now()
			var runErr error
			for !sim.Done() {
				if err := ctx.Err(); err != nil {
					runErr = err
					break
				}
				if err := sim.Step(); err != nil {
					runErr = err
					break
				}
				if sim.Epoch()%progressEvery == 0 {
					n := sim.Output().Epochs()
					slog.Debug("progress",
						"epoch", sim.Epoch(),
						"gini", fmt.Sprintf("%.4f", sim.Output().Gini[n-1]),
						"population", sim.Output().Population[n-1])
				}
			}
			out := sim.Output()
			elapsed := time.Since(start)

			if n := out.Epochs(); n > 0 {
				slog.Info("run finished",
					"epochs", n,
					"elapsed", elapsed.Round(time.Millisecond),
					"final_gini", fmt.Sprintf("%.4f", out.Gini[n-1]),
					"final_nakamoto", out.Nakamoto[n-1],
					"final_hhi", fmt.Sprintf("%.4f", out.HHI[n-1]),
					"final_population", out.Population[n-1])
			}
			if runErr != nil {
				slog.Error("run aborted", "err", runErr)
			}

			if path, _ := cmd.Flags().GetString("output"); path != "" {
				if err := writeSeriesCSV(path, out); err != nil {
					return err
				}
				slog.Info("series written", "path", path, "epochs", out.Epochs())
			}
			return runErr
		},
	}
	addRunFlags(cmd)
	return cmd
}

// writeSeriesCSV dumps the per-epoch series, one row per epoch.
func writeSeriesCSV(path string, out *possim.RunOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"epoch", "gini", "nakamoto", "hhi", "population"}); err != nil {
		return err
	}
	for i := range out.Gini {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(out.Gini[i], 'f', 6, 64),
			strconv.Itoa(out.Nakamoto[i]),
			strconv.FormatFloat(out.HHI[i], 'f', 6, 64),
			strconv.Itoa(out.Population[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
