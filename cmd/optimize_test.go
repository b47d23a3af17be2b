package main

import (
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/config"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/sweep"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/synth"
)

func baseConfig() config.Config {
	return config.Config{
		Generate: config.GenerateConfig{
			Records: 500, Seed: 42, NoiseFrac: 0.05,
			GasRateMin: 0, GasRateMax: 10, ChokeMin: 0, ChokeMax: 64,
		},
		GasLift: config.SweepConfig{TrainFrac: 0.8, GridPoints: 100},
		Choke:   config.SweepConfig{TrainFrac: 0.8, GridPoints: 100},
		Chart:   config.ChartConfig{Output: "optimization.png", WidthIn: 12, HeightIn: 5},
	}
}

// freshOptimizeFlags mirrors the optimize flag set on a throwaway command so
// tests don't leave Changed state on the package-level command.
func freshOptimizeFlags() *cobra.Command {
	cmd := &cobra.Command{}
	f := cmd.Flags()
	f.Int("records", 0, "")
	f.Uint64("seed", 0, "")
	f.Int("grid-points", 0, "")
	f.Float64("split", 0, "")
	f.String("chart", "", "")
	return cmd
}

func TestApplyOptimizeOverrides(t *testing.T) {
	cmd := freshOptimizeFlags()
	require.NoError(t, cmd.Flags().Set("records", "1000"))
	require.NoError(t, cmd.Flags().Set("seed", "7"))
	require.NoError(t, cmd.Flags().Set("grid-points", "200"))
	require.NoError(t, cmd.Flags().Set("split", "0.7"))
	require.NoError(t, cmd.Flags().Set("chart", "out.png"))

	c := applyOptimizeOverrides(cmd, baseConfig())

	assert.Equal(t, 1000, c.Generate.Records)
	assert.Equal(t, uint64(7), c.Generate.Seed)
	assert.Equal(t, 200, c.GasLift.GridPoints)
	assert.Equal(t, 200, c.Choke.GridPoints)
	assert.InDelta(t, 0.7, c.GasLift.TrainFrac, 1e-9)
	assert.InDelta(t, 0.7, c.Choke.TrainFrac, 1e-9)
	assert.Equal(t, "out.png", c.Chart.Output)
}

func TestApplyOptimizeOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	c := applyOptimizeOverrides(freshOptimizeFlags(), baseConfig())

	assert.Equal(t, 500, c.Generate.Records)
	assert.Equal(t, uint64(42), c.Generate.Seed)
	assert.Equal(t, 100, c.GasLift.GridPoints)
	assert.Equal(t, "optimization.png", c.Chart.Output)
}

func sweepFixture(variable string) *sweep.Result {
	return &sweep.Result{
		Variable:    variable,
		RSquared:    0.93,
		Best:        sweep.Optimum{Control: 4.8, Production: 401.5},
		Grid:        []float64{0, 4.8, 10},
		Predictions: []float64{100, 401.5, 150},
	}
}

func TestWriteResultTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, writeResultTable(f, sweepFixture("gas_lift"), sweepFixture("choke")))
	require.NoError(t, f.Close())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Gas Lift Model R²: 0.9300")
	assert.Contains(t, string(out), "Optimal Gas Lift:  4.80 MMscf/day -> 401.5 bbl/day")
	assert.Contains(t, string(out), "Optimal Choke:")
}

func TestWriteCurveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, writeCurveCSV(f, sweepFixture("gas_lift"), sweepFixture("choke")))
	require.NoError(t, f.Close())

	rf, err := os.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	rows, err := csv.NewReader(rf).ReadAll()
	require.NoError(t, err)

	// Header + 3 grid rows per variable.
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"variable", "control_value", "predicted_production", "is_optimum"}, rows[0])
	assert.Equal(t, "gas_lift", rows[1][0])
	assert.Equal(t, "choke", rows[4][0])

	// Exactly one optimum row per variable, at the argmax candidate.
	var optima []string
	for _, row := range rows[1:] {
		if row[3] == "true" {
			optima = append(optima, row[1])
		}
	}
	assert.Equal(t, []string{"4.8", "4.8"}, optima)
}

func TestWriteDatasetCSV(t *testing.T) {
	ds, err := synth.Generate(synth.Params{
		Records: 25, NoiseFrac: 0.05,
		GasRateMin: 0, GasRateMax: 10, ChokeMin: 0, ChokeMax: 64,
	}, rand.NewPCG(42, 0))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wells.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, writeDatasetCSV(f, ds))
	require.NoError(t, f.Close())

	rf, err := os.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	rows, err := csv.NewReader(rf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 26)
	assert.Equal(t, []string{"gas_injection_rate", "oil_production", "choke_size", "flow_rate"}, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, 4)
	}
}
