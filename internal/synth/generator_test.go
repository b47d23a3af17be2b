package synth

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() Params {
	return Params{
		Records:    500,
		NoiseFrac:  0.05,
		GasRateMin: 0,
		GasRateMax: 10,
		ChokeMin:   0,
		ChokeMax:   64,
	}
}

func TestGenerate_RecordCountAndDomains(t *testing.T) {
	p := defaultParams()
	ds, err := Generate(p, rand.NewPCG(42, 0))
	require.NoError(t, err)

	require.Equal(t, p.Records, ds.Len())
	require.Len(t, ds.OilRate, p.Records)
	require.Len(t, ds.ChokeSize, p.Records)
	require.Len(t, ds.FlowRate, p.Records)

	for i := 0; i < ds.Len(); i++ {
		assert.GreaterOrEqual(t, ds.GasRate[i], p.GasRateMin)
		assert.LessOrEqual(t, ds.GasRate[i], p.GasRateMax)
		assert.GreaterOrEqual(t, ds.ChokeSize[i], p.ChokeMin)
		assert.LessOrEqual(t, ds.ChokeSize[i], p.ChokeMax)
		assert.GreaterOrEqual(t, ds.OilRate[i], 0.0)
		assert.GreaterOrEqual(t, ds.FlowRate[i], 0.0)
	}
}

func TestGenerate_Determinism(t *testing.T) {
	p := defaultParams()

	a, err := Generate(p, rand.NewPCG(7, 0))
	require.NoError(t, err)
	b, err := Generate(p, rand.NewPCG(7, 0))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_SeedChangesData(t *testing.T) {
	p := defaultParams()

	a, err := Generate(p, rand.NewPCG(1, 0))
	require.NoError(t, err)
	b, err := Generate(p, rand.NewPCG(2, 0))
	require.NoError(t, err)

	assert.NotEqual(t, a.GasRate, b.GasRate)
}

func TestGenerate_ZeroNoiseMatchesResponseCurves(t *testing.T) {
	p := defaultParams()
	p.NoiseFrac = 0

	ds, err := Generate(p, rand.NewPCG(9, 0))
	require.NoError(t, err)

	for i := 0; i < ds.Len(); i++ {
		assert.InDelta(t, OilResponse(ds.GasRate[i]), ds.OilRate[i], 1e-12)
		assert.InDelta(t, FlowResponse(ds.ChokeSize[i]), ds.FlowRate[i], 1e-12)
	}
}

func TestGenerate_InvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero records", func(p *Params) { p.Records = 0 }},
		{"negative records", func(p *Params) { p.Records = -5 }},
		{"negative noise", func(p *Params) { p.NoiseFrac = -0.1 }},
		{"inverted gas bounds", func(p *Params) { p.GasRateMin, p.GasRateMax = 10, 0 }},
		{"equal gas bounds", func(p *Params) { p.GasRateMin, p.GasRateMax = 5, 5 }},
		{"inverted choke bounds", func(p *Params) { p.ChokeMin, p.ChokeMax = 64, 8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams()
			tt.mutate(&p)
			_, err := Generate(p, rand.NewPCG(1, 0))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestOilResponse_InteriorOptimum(t *testing.T) {
	// The lift response peaks shortly past the saturation rate and falls
	// off under over-injection, so the best rate is interior to [0, 10].
	peak := OilResponse(4.9)
	assert.Greater(t, peak, OilResponse(0.5))
	assert.Greater(t, peak, OilResponse(2.0))
	assert.Greater(t, peak, OilResponse(8.0))
	assert.Greater(t, peak, OilResponse(10.0))

	// Non-negative over the whole physical domain.
	for g := 0.0; g <= 10.0; g += 0.25 {
		assert.GreaterOrEqual(t, OilResponse(g), 0.0, "gas rate %g", g)
	}
}

func TestFlowResponse_MonotoneSaturating(t *testing.T) {
	prev := FlowResponse(0)
	assert.Equal(t, 0.0, prev)
	for c := 1.0; c <= 64.0; c++ {
		cur := FlowResponse(c)
		assert.Greater(t, cur, prev, "choke %g", c)
		prev = cur
	}

	// Marginal gain shrinks as the valve opens.
	lowGain := FlowResponse(8) - FlowResponse(4)
	highGain := FlowResponse(64) - FlowResponse(60)
	assert.Greater(t, lowGain, highGain)
}
