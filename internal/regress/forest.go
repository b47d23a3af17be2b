package regress

import (
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/config"
)

// Forest is a bootstrap-aggregated ensemble of regression trees. Predictions
// average the member trees. Used for the gas-lift response model.
type Forest struct {
	cfg   config.ForestConfig
	rng   *rand.Rand
	trees []*Tree
}

// NewForest returns a forest with the given hyperparameters. All bootstrap
// sampling draws from src, so fits are reproducible per seed.
func NewForest(cfg config.ForestConfig, src rand.Source) *Forest {
	return &Forest{cfg: cfg, rng: rand.New(src)}
}

// Fit trains the ensemble on (x, y) pairs.
func (f *Forest) Fit(x, y []float64) error {
	if f.cfg.Trees <= 0 {
		return eris.Wrapf(ErrInvalidArgument, "forest: trees must be > 0, got %d", f.cfg.Trees)
	}
	if f.cfg.SampleRatio <= 0 || f.cfg.SampleRatio > 1 {
		return eris.Wrapf(ErrInvalidArgument, "forest: sample ratio must be in (0, 1], got %g", f.cfg.SampleRatio)
	}
	if err := validateTraining(x, y); err != nil {
		return eris.Wrap(err, "forest")
	}

	n := len(x)
	m := int(f.cfg.SampleRatio * float64(n))
	if m < 1 {
		m = 1
	}

	f.trees = make([]*Tree, f.cfg.Trees)
	bx := make([]float64, m)
	by := make([]float64, m)
	for i := range f.trees {
		for j := 0; j < m; j++ {
			k := f.rng.IntN(n)
			bx[j] = x[k]
			by[j] = y[k]
		}
		// A bootstrap sample can collapse to one distinct control value;
		// fitSorted turns that into a single-leaf tree rather than failing.
		xs, ys := sortedCopy(bx, by)
		tree := NewTree(f.cfg.MaxDepth, f.cfg.MinLeaf)
		tree.fitSorted(xs, ys)
		f.trees[i] = tree
	}
	return nil
}

// Predict returns the mean prediction of the member trees.
func (f *Forest) Predict(x float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.trees))
}
