package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stakelab/possim"
)

// loadParameters resolves the run configuration in order: package defaults,
// then the YAML file named by --config (if any), then explicit flags.
func loadParameters(cmd *cobra.Command) (possim.Parameters, error) {
	params := possim.DefaultParameters()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := loadParametersFile(path)
		if err != nil {
			return params, err
		}
		params = loaded
	}

	applyFlagOverrides(cmd, &params)

	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// loadParametersFile unmarshals a YAML parameter file over the defaults, so
// a partial file only overrides the fields it names.
func loadParametersFile(path string) (possim.Parameters, error) {
	params := possim.DefaultParameters()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("reading parameter file: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}
	return params, nil
}

// applyFlagOverrides copies any explicitly set flags onto the parameters.
// Flags win over the file, the file wins over the defaults.
func applyFlagOverrides(cmd *cobra.Command, params *possim.Parameters) {
	if cmd.Flags().Changed("epochs") {
		params.NEpochs, _ = cmd.Flags().GetInt("epochs")
	}
	if cmd.Flags().Changed("algorithm") {
		algo, _ := cmd.Flags().GetString("algorithm")
		params.Algorithm = possim.Algorithm(algo)
	}
	if cmd.Flags().Changed("peers") {
		params.NPeers, _ = cmd.Flags().GetInt("peers")
	}
	if cmd.Flags().Changed("volume") {
		params.InitialStakeVolume, _ = cmd.Flags().GetFloat64("volume")
	}
	if cmd.Flags().Changed("distribution") {
		dist, _ := cmd.Flags().GetString("distribution")
		params.InitialDistribution = possim.Distribution(dist)
	}
	if cmd.Flags().Changed("gini") {
		params.InitialGini, _ = cmd.Flags().GetFloat64("gini")
	}
	if cmd.Flags().Changed("corrupted") {
		params.NCorrupted, _ = cmd.Flags().GetInt("corrupted")
	}
	if cmd.Flags().Changed("target-gini") {
		params.TargetGini, _ = cmd.Flags().GetFloat64("target-gini")
	}
	if cmd.Flags().Changed("seed") {
		params.Seed, _ = cmd.Flags().GetInt64("seed")
	}
}

// addRunFlags registers the parameter overrides shared by run and compare.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("epochs", 0, "Number of epochs to simulate")
	cmd.Flags().String("algorithm", "", "Selection rule (see possim run --help)")
	cmd.Flags().Int("peers", 0, "Initial validator count")
	cmd.Flags().Float64("volume", 0, "Total initial stake")
	cmd.Flags().String("distribution", "", "Initial distribution: uniform, random or gini")
	cmd.Flags().Float64("gini", 0, "Target Gini for the gini distribution")
	cmd.Flags().Int("corrupted", 0, "Number of corrupted validators")
	cmd.Flags().Float64("target-gini", 0, "Setpoint for the gini-stabilized rule")
	cmd.Flags().Int64("seed", 0, "Random seed")
	cmd.Flags().StringP("output", "o", "", "Write the per-epoch series to a CSV file")
}
