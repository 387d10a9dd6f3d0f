package simulation

import (
	"fmt"

	"github.com/aristath/lsm-pricer/internal/domain"
)

// Precision selects the storage width for simulated prices. Float32 halves
// the memory footprint of large path tensors (paths × assets × dates can
// reach tens of millions of values) at the cost of rounding each stored
// price.
type Precision int

const (
	Float64 Precision = iota
	Float32
)

// PathSet is a dense tensor of simulated prices indexed by
// (date, path, asset), date-major with the asset axis innermost.
// Date 0 holds the initial prices; dates are equally spaced by
// dt = maturity / Steps(). A PathSet is never mutated after simulation.
type PathSet struct {
	steps     int // number of exercise dates M; the tensor has M+1 date rows
	paths     int
	assets    int
	precision Precision
	f64       []float64
	f32       []float32
}

// NewPathSet allocates a zeroed path set with M+1 date rows.
func NewPathSet(steps, paths, assets int, precision Precision) *PathSet {
	n := (steps + 1) * paths * assets
	ps := &PathSet{
		steps:     steps,
		paths:     paths,
		assets:    assets,
		precision: precision,
	}
	if precision == Float32 {
		ps.f32 = make([]float32, n)
	} else {
		ps.f64 = make([]float64, n)
	}
	return ps
}

// NewSingleAsset builds a single-asset path set from a date-major matrix,
// prices[date][path]. It is the bridge for callers that obtain paths from
// somewhere other than the GBM simulator.
func NewSingleAsset(prices [][]float64) (*PathSet, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: need at least two date rows, got %d", domain.ErrInvalidParameter, len(prices))
	}
	paths := len(prices[0])
	if paths == 0 {
		return nil, fmt.Errorf("%w: empty path dimension", domain.ErrInvalidParameter)
	}
	ps := NewPathSet(len(prices)-1, paths, 1, Float64)
	for t, row := range prices {
		if len(row) != paths {
			return nil, fmt.Errorf("%w: ragged date row %d: %d paths, expected %d", domain.ErrInvalidParameter, t, len(row), paths)
		}
		for i, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative price %g at date %d path %d", domain.ErrInvalidParameter, v, t, i)
			}
			ps.set(t, i, 0, v)
		}
	}
	return ps, nil
}

// Steps returns M, the number of exercise dates after date 0.
func (ps *PathSet) Steps() int { return ps.steps }

// Paths returns the number of simulated paths.
func (ps *PathSet) Paths() int { return ps.paths }

// Assets returns the number of underlying assets.
func (ps *PathSet) Assets() int { return ps.assets }

// Precision returns the storage precision of the set.
func (ps *PathSet) Precision() Precision { return ps.precision }

// At returns the price at (date, path, asset).
func (ps *PathSet) At(date, path, asset int) float64 {
	i := ps.index(date, path, asset)
	if ps.precision == Float32 {
		return float64(ps.f32[i])
	}
	return ps.f64[i]
}

// PricesAt copies the asset-price vector at (date, path) into buf, which is
// grown if needed, and returns it. Callers reuse buf across paths to avoid
// per-path allocation in the induction loops.
func (ps *PathSet) PricesAt(date, path int, buf []float64) []float64 {
	if cap(buf) < ps.assets {
		buf = make([]float64, ps.assets)
	}
	buf = buf[:ps.assets]
	base := ps.index(date, path, 0)
	if ps.precision == Float32 {
		for a := 0; a < ps.assets; a++ {
			buf[a] = float64(ps.f32[base+a])
		}
	} else {
		copy(buf, ps.f64[base:base+ps.assets])
	}
	return buf
}

func (ps *PathSet) set(date, path, asset int, v float64) {
	i := ps.index(date, path, asset)
	if ps.precision == Float32 {
		ps.f32[i] = float32(v)
	} else {
		ps.f64[i] = v
	}
}

func (ps *PathSet) index(date, path, asset int) int {
	return (date*ps.paths+path)*ps.assets + asset
}
