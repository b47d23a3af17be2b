package regress

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/JanviMadhukar/gas-lift-optimization/internal/config"
)

// Boost is a least-squares gradient-boosted ensemble of shallow regression
// trees: each stage fits the residuals of the running prediction, shrunk by
// the learning rate. Used for the choke response model.
type Boost struct {
	cfg    config.BoostConfig
	base   float64 // initial prediction, the training-target mean
	stages []*Tree
}

// NewBoost returns a boosted ensemble with the given hyperparameters.
func NewBoost(cfg config.BoostConfig) *Boost {
	return &Boost{cfg: cfg}
}

// Fit trains the ensemble on (x, y) pairs.
func (b *Boost) Fit(x, y []float64) error {
	if b.cfg.Stages <= 0 {
		return eris.Wrapf(ErrInvalidArgument, "boost: stages must be > 0, got %d", b.cfg.Stages)
	}
	if b.cfg.LearningRate <= 0 || b.cfg.LearningRate > 1 {
		return eris.Wrapf(ErrInvalidArgument, "boost: learning rate must be in (0, 1], got %g", b.cfg.LearningRate)
	}
	if err := validateTraining(x, y); err != nil {
		return eris.Wrap(err, "boost")
	}

	b.base = stat.Mean(y, nil)

	residual := make([]float64, len(y))
	for i, v := range y {
		residual[i] = v - b.base
	}

	b.stages = make([]*Tree, 0, b.cfg.Stages)
	for s := 0; s < b.cfg.Stages; s++ {
		tree := NewTree(b.cfg.MaxDepth, b.cfg.MinLeaf)
		xs, ys := sortedCopy(x, residual)
		tree.fitSorted(xs, ys)
		b.stages = append(b.stages, tree)

		for i, v := range x {
			residual[i] -= b.cfg.LearningRate * tree.Predict(v)
		}
	}
	return nil
}

// Predict returns the boosted prediction at x.
func (b *Boost) Predict(x float64) float64 {
	pred := b.base
	for _, t := range b.stages {
		pred += b.cfg.LearningRate * t.Predict(x)
	}
	return pred
}
