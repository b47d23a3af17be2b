// Package sweep implements the fit-and-scan optimization procedure: split
// the dataset, fit a regression model, score it on the held-out rows, then
// evaluate a candidate grid and select the production-maximizing point.
package sweep

import (
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/regress"
)

// ErrInvalidArgument reports a malformed split ratio or candidate grid.
var ErrInvalidArgument = eris.New("sweep: invalid argument")

// Optimum is the grid candidate with maximum predicted production.
type Optimum struct {
	Control    float64 // control-variable value
	Production float64 // predicted production at that value
}

// Result holds the outcome of one fit-and-scan invocation.
type Result struct {
	Variable    string
	Model       regress.Regressor
	RSquared    float64
	Best        Optimum
	Grid        []float64
	Predictions []float64 // parallel to Grid
}

// Grid returns evenly spaced candidates spanning [lo, hi] inclusive.
func Grid(lo, hi float64, points int) ([]float64, error) {
	if points < 2 {
		return nil, eris.Wrapf(ErrInvalidArgument, "grid needs >= 2 points, got %d", points)
	}
	if lo >= hi {
		return nil, eris.Wrapf(ErrInvalidArgument, "grid bounds inverted: [%g, %g]", lo, hi)
	}
	return floats.Span(make([]float64, points), lo, hi), nil
}

// Run fits model on a seeded shuffle split of the (x, y) columns, computes
// held-out R², then scans the candidate grid for the predicted-production
// maximum. Ties keep the earliest grid point, so selection is deterministic.
// The inputs are not mutated.
func Run(variable string, x, y []float64, model regress.Regressor, trainFrac float64, grid []float64, src rand.Source) (*Result, error) {
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, eris.Wrapf(ErrInvalidArgument, "%s: train fraction must be in (0, 1), got %g", variable, trainFrac)
	}
	if len(grid) == 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "%s: empty candidate grid", variable)
	}
	if len(x) != len(y) {
		return nil, eris.Wrapf(ErrInvalidArgument, "%s: length mismatch: %d control values, %d targets", variable, len(x), len(y))
	}

	xTrain, yTrain, xTest, yTest := split(x, y, trainFrac, src)

	if err := model.Fit(xTrain, yTrain); err != nil {
		return nil, eris.Wrapf(err, "sweep %s: fit", variable)
	}
	r2 := regress.RSquared(model, xTest, yTest)

	preds := make([]float64, len(grid))
	best := 0
	for i, g := range grid {
		preds[i] = model.Predict(g)
		if preds[i] > preds[best] {
			best = i
		}
	}

	zap.L().Info("sweep: scan complete",
		zap.String("variable", variable),
		zap.Float64("r_squared", r2),
		zap.Int("grid_points", len(grid)),
		zap.Float64("optimal_control", grid[best]),
		zap.Float64("optimal_production", preds[best]),
	)

	return &Result{
		Variable:    variable,
		Model:       model,
		RSquared:    r2,
		Best:        Optimum{Control: grid[best], Production: preds[best]},
		Grid:        grid,
		Predictions: preds,
	}, nil
}

// split partitions (x, y) into train and test subsets by a seeded shuffle.
// The training subset holds floor(trainFrac*n) rows, at least one, and the
// remainder is held out for scoring.
func split(x, y []float64, trainFrac float64, src rand.Source) (xTrain, yTrain, xTest, yTest []float64) {
	n := len(x)
	perm := rand.New(src).Perm(n)

	nTrain := int(trainFrac * float64(n))
	if nTrain < 1 {
		nTrain = 1
	}

	xTrain = make([]float64, 0, nTrain)
	yTrain = make([]float64, 0, nTrain)
	xTest = make([]float64, 0, n-nTrain)
	yTest = make([]float64, 0, n-nTrain)
	for i, j := range perm {
		if i < nTrain {
			xTrain = append(xTrain, x[j])
			yTrain = append(yTrain, y[j])
		} else {
			xTest = append(xTest, x[j])
			yTest = append(yTest, y[j])
		}
	}
	return xTrain, yTrain, xTest, yTest
}
