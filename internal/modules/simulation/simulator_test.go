package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lsm-pricer/internal/domain"
)

func seedPtr(v uint64) *uint64 { return &v }

func baseParams() Parameters {
	return Parameters{
		InitialPrices:  []float64{100},
		RiskFreeRate:   0.05,
		DividendYields: []float64{0.0},
		Volatilities:   []float64{0.2},
		Maturity:       1.0,
		NumDates:       4,
		NumPaths:       500,
		Seed:           seedPtr(7),
	}
}

func TestSimulateShapeAndInitialDate(t *testing.T) {
	ps, err := Simulate(baseParams())
	require.NoError(t, err)

	assert.Equal(t, 4, ps.Steps())
	assert.Equal(t, 500, ps.Paths())
	assert.Equal(t, 1, ps.Assets())

	for i := 0; i < ps.Paths(); i++ {
		assert.Equal(t, 100.0, ps.At(0, i, 0))
	}
}

func TestSimulateSeededDeterminism(t *testing.T) {
	a, err := Simulate(baseParams())
	require.NoError(t, err)
	b, err := Simulate(baseParams())
	require.NoError(t, err)

	for tIdx := 0; tIdx <= a.Steps(); tIdx++ {
		for i := 0; i < a.Paths(); i++ {
			require.Equal(t, a.At(tIdx, i, 0), b.At(tIdx, i, 0),
				"mismatch at date %d path %d", tIdx, i)
		}
	}
}

func TestSimulateDifferentSeedsDiverge(t *testing.T) {
	p := baseParams()
	a, err := Simulate(p)
	require.NoError(t, err)

	p.Seed = seedPtr(8)
	b, err := Simulate(p)
	require.NoError(t, err)

	diverged := false
	for i := 0; i < a.Paths() && !diverged; i++ {
		if a.At(a.Steps(), i, 0) != b.At(b.Steps(), i, 0) {
			diverged = true
		}
	}
	assert.True(t, diverged, "different seeds produced identical path sets")
}

func TestSimulateZeroVolatilityIsDeterministicForward(t *testing.T) {
	p := baseParams()
	p.Volatilities = []float64{0}
	p.RiskFreeRate = 0.05
	p.DividendYields = []float64{0.02}
	ps, err := Simulate(p)
	require.NoError(t, err)

	dt := p.Maturity / float64(p.NumDates)
	for tIdx := 0; tIdx <= ps.Steps(); tIdx++ {
		want := 100.0 * math.Exp((0.05-0.02)*dt*float64(tIdx))
		for i := 0; i < ps.Paths(); i++ {
			assert.InDelta(t, want, ps.At(tIdx, i, 0), 1e-9)
		}
	}
}

func TestSimulateMultiAssetIndependentStreams(t *testing.T) {
	p := baseParams()
	p.InitialPrices = []float64{100, 100}
	p.DividendYields = []float64{0, 0}
	p.Volatilities = []float64{0.2, 0.2}
	ps, err := Simulate(p)
	require.NoError(t, err)

	require.Equal(t, 2, ps.Assets())

	// Identical marginals but different draws: the two assets should not
	// move in lockstep.
	same := true
	for i := 0; i < ps.Paths() && same; i++ {
		if ps.At(ps.Steps(), i, 0) != ps.At(ps.Steps(), i, 1) {
			same = false
		}
	}
	assert.False(t, same, "assets shared a random stream")
}

func TestSimulateReducedPrecision(t *testing.T) {
	p := baseParams()
	full, err := Simulate(p)
	require.NoError(t, err)

	p.Precision = Float32
	reduced, err := Simulate(p)
	require.NoError(t, err)

	assert.Equal(t, Float32, reduced.Precision())

	// Same seed, same draws; only the storage rounds.
	for i := 0; i < full.Paths(); i += 50 {
		for tIdx := 0; tIdx <= full.Steps(); tIdx++ {
			assert.InEpsilon(t, full.At(tIdx, i, 0), reduced.At(tIdx, i, 0), 1e-6)
		}
	}
}

func TestSimulateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
	}{
		{"no assets", func(p *Parameters) { p.InitialPrices = nil; p.DividendYields = nil; p.Volatilities = nil }},
		{"non-positive initial price", func(p *Parameters) { p.InitialPrices = []float64{0} }},
		{"negative volatility", func(p *Parameters) { p.Volatilities = []float64{-0.1} }},
		{"negative rate", func(p *Parameters) { p.RiskFreeRate = -0.01 }},
		{"non-positive maturity", func(p *Parameters) { p.Maturity = 0 }},
		{"non-positive dates", func(p *Parameters) { p.NumDates = 0 }},
		{"non-positive paths", func(p *Parameters) { p.NumPaths = -5 }},
		{"mismatched dividends", func(p *Parameters) { p.DividendYields = []float64{0, 0} }},
		{"mismatched volatilities", func(p *Parameters) { p.Volatilities = []float64{0.2, 0.2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			_, err := Simulate(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter), "expected ErrInvalidParameter, got %v", err)
		})
	}
}

func TestNewSingleAsset(t *testing.T) {
	ps, err := NewSingleAsset([][]float64{
		{100, 100},
		{110, 90},
		{120, 80},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ps.Steps())
	assert.Equal(t, 2, ps.Paths())
	assert.Equal(t, 1, ps.Assets())
	assert.Equal(t, 90.0, ps.At(1, 1, 0))
	assert.Equal(t, 120.0, ps.At(2, 0, 0))
}

func TestNewSingleAssetRejectsBadInput(t *testing.T) {
	_, err := NewSingleAsset([][]float64{{100, 100}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = NewSingleAsset([][]float64{{100, 100}, {110}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = NewSingleAsset([][]float64{{100, 100}, {110, -1}})
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}
