package simulation

import (
	"fmt"

	"github.com/aristath/lsm-pricer/internal/domain"
)

// Parameters describes one GBM simulation: d independent assets diffusing
// under the risk-neutral measure with per-asset dividend yields and
// volatilities. A nil Seed draws from ambient entropy; a set Seed makes the
// whole path set bit-reproducible.
type Parameters struct {
	InitialPrices  []float64
	RiskFreeRate   float64
	DividendYields []float64
	Volatilities   []float64
	Maturity       float64
	NumDates       int
	NumPaths       int
	Seed           *uint64
	Precision      Precision
}

// Validate checks all parameters before any simulation work begins.
func (p Parameters) Validate() error {
	d := len(p.InitialPrices)
	if d == 0 {
		return fmt.Errorf("%w: at least one initial price required", domain.ErrInvalidParameter)
	}
	if len(p.DividendYields) != d {
		return fmt.Errorf("%w: %d dividend yields for %d assets", domain.ErrInvalidParameter, len(p.DividendYields), d)
	}
	if len(p.Volatilities) != d {
		return fmt.Errorf("%w: %d volatilities for %d assets", domain.ErrInvalidParameter, len(p.Volatilities), d)
	}
	for i, s0 := range p.InitialPrices {
		if s0 <= 0 {
			return fmt.Errorf("%w: initial price for asset %d must be positive, got %g", domain.ErrInvalidParameter, i, s0)
		}
	}
	for i, v := range p.Volatilities {
		if v < 0 {
			return fmt.Errorf("%w: volatility for asset %d must be non-negative, got %g", domain.ErrInvalidParameter, i, v)
		}
	}
	if p.RiskFreeRate < 0 {
		return fmt.Errorf("%w: risk-free rate must be non-negative, got %g", domain.ErrInvalidParameter, p.RiskFreeRate)
	}
	if p.Maturity <= 0 {
		return fmt.Errorf("%w: maturity must be positive, got %g", domain.ErrInvalidParameter, p.Maturity)
	}
	if p.NumDates <= 0 {
		return fmt.Errorf("%w: number of exercise dates must be positive, got %d", domain.ErrInvalidParameter, p.NumDates)
	}
	if p.NumPaths <= 0 {
		return fmt.Errorf("%w: number of paths must be positive, got %d", domain.ErrInvalidParameter, p.NumPaths)
	}
	return nil
}
