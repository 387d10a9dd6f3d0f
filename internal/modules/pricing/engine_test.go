package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lsm-pricer/internal/domain"
	"github.com/aristath/lsm-pricer/internal/modules/simulation"
)

func seedPtr(v uint64) *uint64 { return &v }

func simulate(t *testing.T, params simulation.Parameters) *simulation.PathSet {
	t.Helper()
	ps, err := simulation.Simulate(params)
	require.NoError(t, err)
	return ps
}

func singleAssetParams(paths int, seed uint64) simulation.Parameters {
	return simulation.Parameters{
		InitialPrices:  []float64{100},
		RiskFreeRate:   0.05,
		DividendYields: []float64{0.10},
		Volatilities:   []float64{0.20},
		Maturity:       3.0,
		NumDates:       9,
		NumPaths:       paths,
		Seed:           seedPtr(seed),
	}
}

func TestTrainSeriesLengthAlwaysInteriorDates(t *testing.T) {
	for _, degree := range []int{0, 2, 5} {
		ps := simulate(t, singleAssetParams(2000, 42))
		series, err := Train(ps, VanillaCall{}, 100, 0.05, 3.0, degree)
		require.NoError(t, err)
		assert.Len(t, series, ps.Steps()-1, "degree %d", degree)
	}

	// Deep out of the money: every interior date is unfitted, the length
	// contract still holds.
	ps := simulate(t, singleAssetParams(2000, 42))
	series, err := Train(ps, VanillaCall{}, 1e9, 0.05, 3.0, 5)
	require.NoError(t, err)
	require.Len(t, series, ps.Steps()-1)
	for i, reg := range series {
		assert.False(t, reg.Fitted, "date %d unexpectedly fitted", i+1)
		assert.Nil(t, reg.Coefficients)
	}
}

func TestTrainNoFitDateLeavesValueUntouched(t *testing.T) {
	// Two exercise dates; the single interior date is entirely below
	// strike, so no regression can be fitted there and the terminal value
	// vector must pass through untouched.
	ps, err := simulation.NewSingleAsset([][]float64{
		{100, 100, 100},
		{50, 60, 70},    // all OTM at the only interior date
		{130, 110, 100}, // terminal payoffs 30, 10, 0
	})
	require.NoError(t, err)

	rate, maturity := 0.05, 1.0
	series, err := Train(ps, VanillaCall{}, 100, rate, maturity, 2)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.False(t, series[0].Fitted)

	// With the interior date skipped, evaluation collapses to the mean
	// terminal payoff with the single final discounting step.
	price, err := Evaluate(ps, VanillaCall{}, 100, rate, maturity, series)
	require.NoError(t, err)

	dt := maturity / float64(ps.Steps())
	want := (30.0 + 10.0 + 0.0) / 3.0 * math.Exp(-rate*dt)
	assert.InDelta(t, want, price, 1e-12)
}

func TestEvaluateRejectsMismatchedSeries(t *testing.T) {
	ps := simulate(t, singleAssetParams(500, 42))
	series, err := Train(ps, VanillaCall{}, 100, 0.05, 3.0, 3)
	require.NoError(t, err)

	tooShort := series[:len(series)-1]
	_, err = Evaluate(ps, VanillaCall{}, 100, 0.05, 3.0, tooShort)
	assert.True(t, errors.Is(err, domain.ErrCoefficientMismatch), "got %v", err)

	tooLong := append(append(CoefficientSeries{}, series...), DateRegression{})
	_, err = Evaluate(ps, VanillaCall{}, 100, 0.05, 3.0, tooLong)
	assert.True(t, errors.Is(err, domain.ErrCoefficientMismatch), "got %v", err)
}

func TestZeroVolatilityDegreeZeroMatchesDiscountedIntrinsic(t *testing.T) {
	// With σ=0 and q=0 the process is deterministic and early exercise is
	// never optimal for a call, so the price is the discounted terminal
	// intrinsic value.
	params := simulation.Parameters{
		InitialPrices:  []float64{100},
		RiskFreeRate:   0.05,
		DividendYields: []float64{0},
		Volatilities:   []float64{0},
		Maturity:       2.0,
		NumDates:       4,
		NumPaths:       200,
		Seed:           seedPtr(1),
	}
	training := simulate(t, params)
	params.Seed = seedPtr(2)
	test := simulate(t, params)

	strike, rate, maturity := 90.0, 0.05, 2.0
	series, err := Train(training, VanillaCall{}, strike, rate, maturity, 0)
	require.NoError(t, err)

	price, err := Evaluate(test, VanillaCall{}, strike, rate, maturity, series)
	require.NoError(t, err)

	want := 100.0 - strike*math.Exp(-rate*maturity)
	assert.InDelta(t, want, price, 1e-9)
}

func TestTrainValidation(t *testing.T) {
	ps := simulate(t, singleAssetParams(100, 42))

	_, err := Train(nil, VanillaCall{}, 100, 0.05, 3.0, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = Train(ps, nil, 100, 0.05, 3.0, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = Train(ps, VanillaCall{}, 0, 0.05, 3.0, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = Train(ps, VanillaCall{}, 100, -0.05, 3.0, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = Train(ps, VanillaCall{}, 100, 0.05, 0, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))

	_, err = Train(ps, VanillaCall{}, 100, 0.05, 3.0, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestEndToEndSingleAssetScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size pricing scenario in short mode")
	}

	training := simulate(t, singleAssetParams(25000, 42))
	test := simulate(t, singleAssetParams(100000, 45))

	series, err := Train(training, VanillaCall{}, 100, 0.05, 3.0, 5)
	require.NoError(t, err)
	require.Len(t, series, 8)

	price, err := Evaluate(test, VanillaCall{}, 100, 0.05, 3.0, series)
	require.NoError(t, err)

	assert.Greater(t, price, 0.0)
	// Loose sanity bracket; the pinned regression baseline lives with the
	// seeds above, not with a literature value.
	assert.Less(t, price, 100.0)
}

func TestBasketPriceExceedsSingleAssetPrice(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size pricing scenario in short mode")
	}

	strike, rate, maturity := 100.0, 0.05, 3.0

	single := priceScenario(t, 1, strike, rate, maturity)
	basket2 := priceScenario(t, 2, strike, rate, maturity)
	basket3 := priceScenario(t, 3, strike, rate, maturity)

	// More assets cannot lower the expectation of the running maximum.
	assert.Greater(t, basket2, single)
	assert.GreaterOrEqual(t, basket3, basket2-0.05) // Monte Carlo noise allowance
}

func priceScenario(t *testing.T, dim int, strike, rate, maturity float64) float64 {
	t.Helper()

	initial := make([]float64, dim)
	dividends := make([]float64, dim)
	vols := make([]float64, dim)
	for i := range initial {
		initial[i] = 100
		dividends[i] = 0.10
		vols[i] = 0.20
	}

	params := simulation.Parameters{
		InitialPrices:  initial,
		RiskFreeRate:   rate,
		DividendYields: dividends,
		Volatilities:   vols,
		Maturity:       maturity,
		NumDates:       9,
		NumPaths:       25000,
		Seed:           seedPtr(42),
	}
	training := simulate(t, params)

	params.NumPaths = 100000
	params.Seed = seedPtr(45)
	test := simulate(t, params)

	var profile Profile = VanillaCall{}
	if dim > 1 {
		profile = BasketMaxCall{}
	}

	series, err := Train(training, profile, strike, rate, maturity, 5)
	require.NoError(t, err)

	price, err := Evaluate(test, profile, strike, rate, maturity, series)
	require.NoError(t, err)
	return price
}
