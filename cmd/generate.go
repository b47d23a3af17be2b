package main

import (
	"encoding/csv"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/synth"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic well-response dataset as CSV",
	Long: `Generate the synthetic dataset used by the optimization run and emit it
as CSV, one row per simulated well condition.

Examples:
  # 500 rows to stdout with the default seed
  liftopt generate

  # 1000 rows to a file, custom seed
  liftopt generate --records 1000 --seed 7 --out-file wells.csv`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int("records", 0, "dataset size (overrides config)")
	f.Uint64("seed", 0, "random seed (overrides config)")
	f.String("out-file", "", "output file path (default: stdout)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	c := *cfg
	if v, _ := cmd.Flags().GetInt("records"); v > 0 {
		c.Generate.Records = v
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetUint64("seed")
		c.Generate.Seed = v
	}
	if err := c.Validate(); err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out-file")

	ds, err := synth.Generate(generateParams(c.Generate), rand.NewPCG(c.Generate.Seed, 0))
	if err != nil {
		return eris.Wrap(err, "generate: dataset")
	}

	var w *os.File
	if outPath != "" {
		w, err = os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "generate: create output file %s", outPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	if err := writeDatasetCSV(w, ds); err != nil {
		return err
	}

	zap.L().Info("dataset written",
		zap.Int("records", ds.Len()),
		zap.Uint64("seed", c.Generate.Seed),
		zap.String("path", outPath),
	)
	return nil
}

func writeDatasetCSV(w *os.File, ds *synth.Dataset) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"gas_injection_rate", "oil_production", "choke_size", "flow_rate"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "generate: write CSV header")
	}

	for i := 0; i < ds.Len(); i++ {
		row := []string{
			strconv.FormatFloat(ds.GasRate[i], 'g', -1, 64),
			strconv.FormatFloat(ds.OilRate[i], 'g', -1, 64),
			strconv.FormatFloat(ds.ChokeSize[i], 'g', -1, 64),
			strconv.FormatFloat(ds.FlowRate[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "generate: write CSV row")
		}
	}
	return nil
}
