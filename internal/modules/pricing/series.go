package pricing

// DateRegression is the continuation-value estimator fitted at one interior
// exercise date. Fitted is false when no path was in the money at that date
// during training, in which case Coefficients is nil and the evaluation
// engine skips the date entirely.
type DateRegression struct {
	Coefficients []float64 `json:"coefficients,omitempty" msgpack:"coefficients"`
	Fitted       bool      `json:"fitted" msgpack:"fitted"`
}

// CoefficientSeries holds one DateRegression per interior exercise date in
// chronological order: entry k belongs to date k+1. Date 0 is not a decision
// point and the terminal date is the deterministic payoff boundary, so a
// path set with M exercise dates yields a series of length M−1.
type CoefficientSeries []DateRegression
