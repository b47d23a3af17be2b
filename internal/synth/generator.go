// Package synth generates synthetic well-response datasets for the
// gas-lift and choke optimization models.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidArgument reports malformed generation parameters.
var ErrInvalidArgument = eris.New("synth: invalid argument")

// Response curve constants. The gas-lift response ramps with diminishing
// returns and pays a quadratic penalty past the saturation rate; the choke
// response saturates toward a ceiling as the valve opens.
const (
	oilPlateau    = 420.0 // bbl/day asymptote of the lift response
	oilRamp       = 0.75  // per MMscf/day
	oilSaturation = 4.5   // MMscf/day, over-injection threshold
	oilPenalty    = 13.0  // bbl/day per (MMscf/day)^2 past saturation

	flowCeiling  = 900.0 // bbl/day
	flowHalfOpen = 12.0  // 64ths of an inch at half ceiling
)

// Params controls dataset generation.
type Params struct {
	Records    int
	NoiseFrac  float64 // noise sigma as a fraction of the noise-free signal
	GasRateMin float64 // MMscf/day
	GasRateMax float64
	ChokeMin   float64 // 64ths of an inch
	ChokeMax   float64
}

// Dataset is an immutable collection of synthetic well observations,
// stored column-wise. All columns have equal length.
type Dataset struct {
	GasRate   []float64 // gas injection rate, MMscf/day
	OilRate   []float64 // oil production under gas lift, bbl/day
	ChokeSize []float64 // choke opening, 64ths of an inch
	FlowRate  []float64 // wellhead flow through the choke, bbl/day
}

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.GasRate) }

// OilResponse returns the noise-free oil production for a gas injection rate.
func OilResponse(gasRate float64) float64 {
	oil := oilPlateau * (1 - math.Exp(-oilRamp*gasRate))
	if gasRate > oilSaturation {
		over := gasRate - oilSaturation
		oil -= oilPenalty * over * over
	}
	return math.Max(oil, 0)
}

// FlowResponse returns the noise-free flow rate for a choke size.
func FlowResponse(chokeSize float64) float64 {
	return flowCeiling * chokeSize / (chokeSize + flowHalfOpen)
}

// Generate produces a dataset of p.Records observations. Control values are
// sampled uniformly over their domains, responses follow the physical curves
// above plus Gaussian noise scaled to the signal, clamped non-negative.
// Generation is a pure function of p and src: the same seed reproduces the
// dataset exactly.
func Generate(p Params, src rand.Source) (*Dataset, error) {
	if p.Records <= 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "record count must be > 0, got %d", p.Records)
	}
	if p.NoiseFrac < 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "noise fraction must be >= 0, got %g", p.NoiseFrac)
	}
	if p.GasRateMin >= p.GasRateMax {
		return nil, eris.Wrapf(ErrInvalidArgument, "gas rate bounds inverted: [%g, %g]", p.GasRateMin, p.GasRateMax)
	}
	if p.ChokeMin >= p.ChokeMax {
		return nil, eris.Wrapf(ErrInvalidArgument, "choke bounds inverted: [%g, %g]", p.ChokeMin, p.ChokeMax)
	}

	gasDist := distuv.Uniform{Min: p.GasRateMin, Max: p.GasRateMax, Src: src}
	chokeDist := distuv.Uniform{Min: p.ChokeMin, Max: p.ChokeMax, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	d := &Dataset{
		GasRate:   make([]float64, p.Records),
		OilRate:   make([]float64, p.Records),
		ChokeSize: make([]float64, p.Records),
		FlowRate:  make([]float64, p.Records),
	}
	for i := 0; i < p.Records; i++ {
		gas := gasDist.Rand()
		choke := chokeDist.Rand()

		oil := OilResponse(gas)
		oil += noise.Rand() * p.NoiseFrac * oil
		flow := FlowResponse(choke)
		flow += noise.Rand() * p.NoiseFrac * flow

		d.GasRate[i] = gas
		d.OilRate[i] = math.Max(oil, 0)
		d.ChokeSize[i] = choke
		d.FlowRate[i] = math.Max(flow, 0)
	}
	return d, nil
}
