package pricing

import "math"

// Profile derives the regression basis price and the exercise payoff from
// the asset-price vector observed at a single date. The induction engine is
// generic over this capability; single-asset and basket pricing are the two
// specializations.
type Profile interface {
	// BasisPrice is the scalar regression covariate for one path at one date.
	BasisPrice(prices []float64) float64
	// Payoff is the immediate exercise value for one path at one date.
	Payoff(prices []float64, strike float64) float64
}

// VanillaCall prices a plain call on a single underlying. The basis price is
// the raw asset price.
type VanillaCall struct{}

func (VanillaCall) BasisPrice(prices []float64) float64 {
	return prices[0]
}

func (VanillaCall) Payoff(prices []float64, strike float64) float64 {
	return CallPayoff(prices[0], strike)
}

// BasketMaxCall prices a call on the maximum of several underlyings. The
// basis price is the running maximum over assets.
type BasketMaxCall struct{}

func (BasketMaxCall) BasisPrice(prices []float64) float64 {
	best := prices[0]
	for _, p := range prices[1:] {
		if p > best {
			best = p
		}
	}
	return best
}

func (b BasketMaxCall) Payoff(prices []float64, strike float64) float64 {
	return CallPayoff(b.BasisPrice(prices), strike)
}

// CallPayoff is the plain call payoff max(price − strike, 0).
func CallPayoff(price, strike float64) float64 {
	return math.Max(price-strike, 0)
}
