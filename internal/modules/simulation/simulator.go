package simulation

import (
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulate generates a PathSet of geometric Brownian motion paths.
//
// Each asset diffuses independently (diagonal covariance only):
//
//	S_t = S_{t-1} · exp((r − q − σ²/2)·dt + σ·√dt·Z)
//
// with Z i.i.d. standard normal across dates, paths and assets. Every path
// owns its own deterministic sub-stream derived from the base seed, so the
// result is bit-identical for a given seed regardless of how the work is
// spread over workers.
func Simulate(params Parameters) (*PathSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	assets := len(params.InitialPrices)
	steps := params.NumDates
	dt := params.Maturity / float64(steps)
	sqrtDt := math.Sqrt(dt)

	driftTerm := make([]float64, assets)
	volTerm := make([]float64, assets)
	for a := 0; a < assets; a++ {
		sigma := params.Volatilities[a]
		driftTerm[a] = (params.RiskFreeRate - params.DividendYields[a] - 0.5*sigma*sigma) * dt
		volTerm[a] = sigma * sqrtDt
	}

	baseSeed := uint64(time.Now().UnixNano())
	if params.Seed != nil {
		baseSeed = *params.Seed
	}

	ps := NewPathSet(steps, params.NumPaths, assets, params.Precision)

	workers := runtime.GOMAXPROCS(0)
	if params.NumPaths < 256 {
		workers = 1
	}
	chunk := (params.NumPaths + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > params.NumPaths {
			hi = params.NumPaths
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			prices := make([]float64, assets)
			for i := lo; i < hi; i++ {
				norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(pathSeed(baseSeed, i))}
				for a := 0; a < assets; a++ {
					prices[a] = params.InitialPrices[a]
					ps.set(0, i, a, prices[a])
				}
				for t := 1; t <= steps; t++ {
					for a := 0; a < assets; a++ {
						prices[a] *= math.Exp(driftTerm[a] + volTerm[a]*norm.Rand())
						ps.set(t, i, a, prices[a])
					}
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	return ps, nil
}

// pathSeed derives an independent stream seed for each path from the base
// seed via the splitmix64 finalizer.
func pathSeed(base uint64, path int) uint64 {
	z := base + uint64(path+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
