package main

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/chart"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/config"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/regress"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/sweep"
	"github.com/JanviMadhukar/gas-lift-optimization/internal/synth"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the full generate-fit-scan optimization",
	Long: `Generate a synthetic well-response dataset, fit a random-forest model
for gas injection rate and a gradient-boosting model for choke size, then
scan a candidate grid per variable for the production-maximizing setting.

Prints the fit score and optimum per variable and writes a two-panel chart
of the prediction curves.

Examples:
  # Default run (500 records, seed 42)
  liftopt optimize

  # Larger dataset, finer grids, custom chart path
  liftopt optimize --records 1000 --grid-points 200 --chart curves.png

  # Export the swept curves as CSV instead of a table
  liftopt optimize --format csv --out-file curves.csv`,
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.Int("records", 0, "dataset size (overrides config)")
	f.Uint64("seed", 0, "random seed (overrides config)")
	f.Int("grid-points", 0, "candidate grid resolution for both variables (overrides config)")
	f.Float64("split", 0, "training fraction in (0,1) for both variables (overrides config)")
	f.String("chart", "", "chart PNG path (overrides config; 'none' disables)")
	f.String("format", "table", "output format: table or csv")
	f.String("out-file", "", "output file path (default: stdout)")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	c := applyOptimizeOverrides(cmd, *cfg)
	if err := c.Validate(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out-file")
	if format != "table" && format != "csv" {
		return eris.Errorf("optimize: --format must be table or csv (got %q)", format)
	}

	log := zap.L().With(zap.String("command", "optimize"))
	log.Info("generating dataset",
		zap.Int("records", c.Generate.Records),
		zap.Uint64("seed", c.Generate.Seed),
	)

	ds, err := synth.Generate(generateParams(c.Generate), rand.NewPCG(c.Generate.Seed, 0))
	if err != nil {
		return eris.Wrap(err, "optimize: generate dataset")
	}

	// The two sweeps are independent; run them concurrently with seeds
	// derived from the base seed so each stays reproducible on its own.
	var gasRes, chokeRes *sweep.Result
	g, _ := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		grid, err := sweep.Grid(c.Generate.GasRateMin, c.Generate.GasRateMax, c.GasLift.GridPoints)
		if err != nil {
			return err
		}
		model := regress.NewForest(c.Forest, rand.NewPCG(c.Generate.Seed+1, 0))
		res, err := sweep.Run("gas_lift", ds.GasRate, ds.OilRate, model,
			c.GasLift.TrainFrac, grid, rand.NewPCG(c.Generate.Seed+2, 0))
		if err != nil {
			return err
		}
		gasRes = res
		return nil
	})
	g.Go(func() error {
		grid, err := sweep.Grid(c.Generate.ChokeMin, c.Generate.ChokeMax, c.Choke.GridPoints)
		if err != nil {
			return err
		}
		model := regress.NewBoost(c.Boost)
		res, err := sweep.Run("choke", ds.ChokeSize, ds.FlowRate, model,
			c.Choke.TrainFrac, grid, rand.NewPCG(c.Generate.Seed+3, 0))
		if err != nil {
			return err
		}
		chokeRes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := outputSweepResults(gasRes, chokeRes, format, outPath); err != nil {
		return err
	}

	if c.Chart.Output != "" && c.Chart.Output != "none" {
		panels := []chart.Panel{
			{
				Title:  "Gas Lift Optimization",
				XLabel: "Gas Injection Rate (MMscf/day)",
				YLabel: "Oil Production (bbl/day)",
				Result: gasRes,
			},
			{
				Title:     "Choke Optimization",
				XLabel:    "Choke Size (1/64 inches)",
				YLabel:    "Flow Rate (bbl/day)",
				LineColor: color.RGBA{G: 130, A: 255},
				Result:    chokeRes,
			},
		}
		if err := chart.Render(c.Chart.Output, c.Chart.WidthIn, c.Chart.HeightIn, panels); err != nil {
			return eris.Wrap(err, "optimize: render chart")
		}
		log.Info("chart written", zap.String("path", c.Chart.Output))
	}

	return nil
}

// applyOptimizeOverrides returns a copy of the base config with CLI flag
// overrides applied.
func applyOptimizeOverrides(cmd *cobra.Command, base config.Config) config.Config {
	c := base

	if v, _ := cmd.Flags().GetInt("records"); v > 0 {
		c.Generate.Records = v
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetUint64("seed")
		c.Generate.Seed = v
	}
	if v, _ := cmd.Flags().GetInt("grid-points"); v > 0 {
		c.GasLift.GridPoints = v
		c.Choke.GridPoints = v
	}
	if v, _ := cmd.Flags().GetFloat64("split"); v > 0 {
		c.GasLift.TrainFrac = v
		c.Choke.TrainFrac = v
	}
	if v, _ := cmd.Flags().GetString("chart"); v != "" {
		c.Chart.Output = v
	}

	return c
}

func generateParams(g config.GenerateConfig) synth.Params {
	return synth.Params{
		Records:    g.Records,
		NoiseFrac:  g.NoiseFrac,
		GasRateMin: g.GasRateMin,
		GasRateMax: g.GasRateMax,
		ChokeMin:   g.ChokeMin,
		ChokeMax:   g.ChokeMax,
	}
}

func outputSweepResults(gas, choke *sweep.Result, format, outPath string) error {
	var w *os.File
	if outPath != "" {
		var err error
		w, err = os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "optimize: create output file %s", outPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writeCurveCSV(w, gas, choke)
	case "table":
		return writeResultTable(w, gas, choke)
	default:
		return eris.Errorf("optimize: unsupported format %q", format)
	}
}

func writeResultTable(w *os.File, gas, choke *sweep.Result) error {
	lines := []string{
		fmt.Sprintf("Gas Lift Model R²: %.4f", gas.RSquared),
		fmt.Sprintf("Choke Model R²:    %.4f", choke.RSquared),
		"",
		fmt.Sprintf("Optimal Gas Lift:  %.2f MMscf/day -> %.1f bbl/day", gas.Best.Control, gas.Best.Production),
		fmt.Sprintf("Optimal Choke:     %.1f /64 in    -> %.1f bbl/day", choke.Best.Control, choke.Best.Production),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return eris.Wrap(err, "optimize: write table")
		}
	}
	return nil
}

// writeCurveCSV emits the full swept (grid, prediction) curves, one row per
// candidate, for downstream plotting or inspection.
func writeCurveCSV(w *os.File, results ...*sweep.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"variable", "control_value", "predicted_production", "is_optimum"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "optimize: write CSV header")
	}

	for _, r := range results {
		for i, g := range r.Grid {
			row := []string{
				r.Variable,
				strconv.FormatFloat(g, 'g', -1, 64),
				strconv.FormatFloat(r.Predictions[i], 'g', -1, 64),
				strconv.FormatBool(g == r.Best.Control && r.Predictions[i] == r.Best.Production),
			}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "optimize: write CSV row")
			}
		}
	}
	return nil
}
