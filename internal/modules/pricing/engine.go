package pricing

import (
	"fmt"
	"math"

	"github.com/aristath/lsm-pricer/internal/domain"
	"github.com/aristath/lsm-pricer/internal/modules/simulation"
	"github.com/aristath/lsm-pricer/pkg/formulas"
)

// Train runs Longstaff–Schwartz backward induction over a training path set
// and returns the per-date continuation-value regressions.
//
// The value vector starts as the terminal payoff. Walking dates M−1 down to
// 1, the discounted value of the in-the-money subset is regressed on the
// basis price with an OLS polynomial of the given degree; the fitted
// polynomial is then evaluated at every path and compared against immediate
// exercise. Exercise replaces the held value only on strict inequality.
// Dates with no in-the-money path get an unfitted marker and leave the value
// vector untouched. Coefficients are indexed directly by chronological date,
// so the returned series needs no reversal pass.
func Train(paths *simulation.PathSet, profile Profile, strike, rate, maturity float64, degree int) (CoefficientSeries, error) {
	if err := validateEngineInputs(paths, profile, strike, rate, maturity); err != nil {
		return nil, err
	}
	if degree < 0 {
		return nil, fmt.Errorf("%w: polynomial degree must be non-negative, got %d", domain.ErrInvalidParameter, degree)
	}

	m := paths.Steps()
	dt := maturity / float64(m)
	discount := math.Exp(-rate * dt)

	value := terminalPayoffs(paths, profile, strike)
	series := make(CoefficientSeries, m-1)

	basis := make([]float64, paths.Paths())
	exercise := make([]float64, paths.Paths())
	itm := make([]int, 0, paths.Paths())
	var itmBasis, itmValue []float64

	for t := m - 1; t >= 1; t-- {
		dateSlices(paths, profile, strike, t, basis, exercise)

		itm = itm[:0]
		for i, b := range basis {
			if b > strike {
				itm = append(itm, i)
			}
		}
		if len(itm) == 0 {
			series[t-1] = DateRegression{}
			continue
		}

		itmBasis = itmBasis[:0]
		itmValue = itmValue[:0]
		for _, i := range itm {
			itmBasis = append(itmBasis, basis[i])
			itmValue = append(itmValue, value[i]*discount)
		}

		coeffs, err := formulas.FitPolynomial(itmBasis, itmValue, degree)
		if err != nil {
			return nil, fmt.Errorf("regression at date %d: %w", t, err)
		}
		series[t-1] = DateRegression{Coefficients: coeffs, Fitted: true}

		for i := range value {
			continuation := formulas.EvalPolynomial(coeffs, basis[i])
			if exercise[i] > continuation {
				value[i] = exercise[i]
			} else {
				value[i] *= discount
			}
		}
	}

	return series, nil
}

// Evaluate replays the induction on an independent test path set using the
// already-fitted series without re-fitting, so the frozen policy yields the
// unbiased out-of-sample estimate. The returned price is the value-vector
// mean discounted one step back to time 0.
func Evaluate(paths *simulation.PathSet, profile Profile, strike, rate, maturity float64, series CoefficientSeries) (float64, error) {
	if err := validateEngineInputs(paths, profile, strike, rate, maturity); err != nil {
		return 0, err
	}

	m := paths.Steps()
	if len(series) != m-1 {
		return 0, fmt.Errorf("%w: series has %d entries, path set implies %d interior dates",
			domain.ErrCoefficientMismatch, len(series), m-1)
	}

	dt := maturity / float64(m)
	discount := math.Exp(-rate * dt)

	value := terminalPayoffs(paths, profile, strike)
	basis := make([]float64, paths.Paths())
	exercise := make([]float64, paths.Paths())

	for t := m - 1; t >= 1; t-- {
		reg := series[t-1]
		if !reg.Fitted {
			continue
		}

		dateSlices(paths, profile, strike, t, basis, exercise)
		for i := range value {
			continuation := formulas.EvalPolynomial(reg.Coefficients, basis[i])
			if exercise[i] > continuation {
				value[i] = exercise[i]
			} else {
				value[i] *= discount
			}
		}
	}

	return formulas.Mean(value) * discount, nil
}

func validateEngineInputs(paths *simulation.PathSet, profile Profile, strike, rate, maturity float64) error {
	if paths == nil {
		return fmt.Errorf("%w: nil path set", domain.ErrInvalidParameter)
	}
	if profile == nil {
		return fmt.Errorf("%w: nil payoff profile", domain.ErrInvalidParameter)
	}
	if strike <= 0 {
		return fmt.Errorf("%w: strike must be positive, got %g", domain.ErrInvalidParameter, strike)
	}
	if rate < 0 {
		return fmt.Errorf("%w: risk-free rate must be non-negative, got %g", domain.ErrInvalidParameter, rate)
	}
	if maturity <= 0 {
		return fmt.Errorf("%w: maturity must be positive, got %g", domain.ErrInvalidParameter, maturity)
	}
	if paths.Steps() < 1 {
		return fmt.Errorf("%w: path set has no exercise dates", domain.ErrInvalidParameter)
	}
	return nil
}

// terminalPayoffs initializes the per-path value vector to the payoff at the
// terminal exercise date.
func terminalPayoffs(paths *simulation.PathSet, profile Profile, strike float64) []float64 {
	value := make([]float64, paths.Paths())
	var buf []float64
	for i := range value {
		buf = paths.PricesAt(paths.Steps(), i, buf)
		value[i] = profile.Payoff(buf, strike)
	}
	return value
}

// dateSlices fills the basis-price and exercise-payoff vectors for one date.
func dateSlices(paths *simulation.PathSet, profile Profile, strike float64, date int, basis, exercise []float64) {
	var buf []float64
	for i := range basis {
		buf = paths.PricesAt(date, i, buf)
		basis[i] = profile.BasisPrice(buf)
		exercise[i] = profile.Payoff(buf, strike)
	}
}
