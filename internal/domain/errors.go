package domain

import "errors"

// ErrInvalidParameter indicates pricing inputs that fail validation before
// any simulation or regression work begins: non-positive prices, strikes or
// maturities, negative volatilities or rates, non-positive date/path counts,
// or mismatched per-asset array shapes.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrCoefficientMismatch indicates a trained coefficient series whose length
// does not match the interior exercise dates of the path set it is being
// evaluated against.
var ErrCoefficientMismatch = errors.New("coefficient series mismatch")
