package formulas

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitPolynomial fits an ordinary-least-squares polynomial of the given degree
// to the points (x[i], y[i]) and returns the coefficients ordered from the
// constant term upward: y ≈ c[0] + c[1]·x + ... + c[degree]·x^degree.
//
// When there are fewer points than degree+1 the effective degree is clamped
// to len(x)-1 so the Vandermonde system stays full rank; the returned slice
// is zero-padded back to degree+1 entries.
func FitPolynomial(x, y []float64, degree int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("mismatched sample lengths: %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("no samples to fit")
	}
	if degree < 0 {
		return nil, fmt.Errorf("degree must be non-negative, got %d", degree)
	}

	effective := degree
	if len(x)-1 < effective {
		effective = len(x) - 1
	}

	a := mat.NewDense(len(x), effective+1, nil)
	for i, v := range x {
		pow := 1.0
		for j := 0; j <= effective; j++ {
			a.Set(i, j, pow)
			pow *= v
		}
	}

	var c mat.VecDense
	if err := c.SolveVec(a, mat.NewVecDense(len(y), y)); err != nil {
		return nil, fmt.Errorf("least-squares solve failed: %w", err)
	}

	coeffs := make([]float64, degree+1)
	for j := 0; j <= effective; j++ {
		coeffs[j] = c.AtVec(j)
	}
	return coeffs, nil
}

// EvalPolynomial evaluates the polynomial with the given coefficients
// (constant term first) at x using Horner's rule.
func EvalPolynomial(coeffs []float64, x float64) float64 {
	v := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		v = v*x + coeffs[j]
	}
	return v
}
