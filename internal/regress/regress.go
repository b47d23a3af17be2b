// Package regress implements single-feature regression model families for
// the production-response fits: CART regression trees, bootstrap-aggregated
// random forests, and least-squares gradient boosting.
package regress

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidArgument reports malformed training inputs or hyperparameters.
var ErrInvalidArgument = eris.New("regress: invalid argument")

// ErrDegenerateFit reports training data with fewer than two distinct
// control values, for which a regression fit is undefined.
var ErrDegenerateFit = eris.New("regress: degenerate fit")

// Regressor maps one scalar control value to a predicted production value.
// Fit must be called before Predict.
type Regressor interface {
	Fit(x, y []float64) error
	Predict(x float64) float64
}

// RSquared returns the coefficient of determination of model predictions
// against observed values: 1 - SS_res/SS_tot. A perfect fit scores 1.0;
// fits worse than predicting the mean score below 0.
func RSquared(model Regressor, x, y []float64) float64 {
	estimates := make([]float64, len(x))
	for i, v := range x {
		estimates[i] = model.Predict(v)
	}
	return stat.RSquaredFrom(estimates, y, nil)
}

// validateTraining checks the shared Fit preconditions.
func validateTraining(x, y []float64) error {
	if len(x) == 0 {
		return eris.Wrap(ErrInvalidArgument, "empty training set")
	}
	if len(x) != len(y) {
		return eris.Wrapf(ErrInvalidArgument, "length mismatch: %d control values, %d targets", len(x), len(y))
	}
	first := x[0]
	for _, v := range x[1:] {
		if v != first {
			return nil
		}
	}
	return eris.Wrapf(ErrDegenerateFit, "training set has a single distinct control value %g", first)
}
