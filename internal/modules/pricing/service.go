package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/lsm-pricer/internal/domain"
	"github.com/aristath/lsm-pricer/internal/modules/simulation"
)

// Scenario is one complete pricing request: market/contract parameters plus
// the Monte Carlo configuration for the two-pass estimator. Training and
// test seeds must differ when both are given; sharing a stream across the
// two passes reintroduces the in-sample bias the split exists to remove.
type Scenario struct {
	InitialPrices  []float64
	RiskFreeRate   float64
	DividendYields []float64
	Volatilities   []float64
	Strike         float64
	Maturity       float64
	NumDates       int
	TrainingPaths  int
	TestPaths      int
	Degree         int
	TrainingSeed   *uint64
	TestSeed       *uint64
	Precision      simulation.Precision
}

// Profile returns the payoff strategy implied by the asset dimension.
func (s Scenario) Profile() Profile {
	if len(s.InitialPrices) > 1 {
		return BasketMaxCall{}
	}
	return VanillaCall{}
}

// Result is the outcome of one pricing run.
type Result struct {
	ID      string
	Price   float64
	Series  CoefficientSeries
	Elapsed time.Duration
}

// Service runs the full two-pass pipeline: simulate training paths, fit the
// exercise policy, simulate an independent test set, evaluate the frozen
// policy.
type Service struct {
	log zerolog.Logger
}

// NewService creates a pricing service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "pricing_service").Logger(),
	}
}

// Price executes one scenario end to end. The call is all-or-nothing: every
// parameter is validated before any simulation starts, and a failure leaves
// no partial result.
func (s *Service) Price(scenario Scenario) (Result, error) {
	start := time.Now()

	if scenario.TrainingSeed != nil && scenario.TestSeed != nil && *scenario.TrainingSeed == *scenario.TestSeed {
		return Result{}, fmt.Errorf("%w: training and test seeds must differ, both are %d",
			domain.ErrInvalidParameter, *scenario.TrainingSeed)
	}

	profile := scenario.Profile()

	trainingPaths, err := simulation.Simulate(scenario.simulationParams(scenario.TrainingPaths, scenario.TrainingSeed))
	if err != nil {
		return Result{}, fmt.Errorf("training simulation: %w", err)
	}

	series, err := Train(trainingPaths, profile, scenario.Strike, scenario.RiskFreeRate, scenario.Maturity, scenario.Degree)
	if err != nil {
		return Result{}, fmt.Errorf("training: %w", err)
	}

	testPaths, err := simulation.Simulate(scenario.simulationParams(scenario.TestPaths, scenario.TestSeed))
	if err != nil {
		return Result{}, fmt.Errorf("test simulation: %w", err)
	}

	price, err := Evaluate(testPaths, profile, scenario.Strike, scenario.RiskFreeRate, scenario.Maturity, series)
	if err != nil {
		return Result{}, fmt.Errorf("evaluation: %w", err)
	}

	result := Result{
		ID:      uuid.New().String(),
		Price:   price,
		Series:  series,
		Elapsed: time.Since(start),
	}

	s.log.Info().
		Str("run_id", result.ID).
		Int("assets", len(scenario.InitialPrices)).
		Int("dates", scenario.NumDates).
		Int("training_paths", scenario.TrainingPaths).
		Int("test_paths", scenario.TestPaths).
		Float64("price", price).
		Dur("elapsed", result.Elapsed).
		Msg("Scenario priced")

	return result, nil
}

// NewRunRecord converts a priced scenario into its persistable form, with
// the coefficient series encoded as msgpack.
func NewRunRecord(scenario Scenario, result Result) (domain.PricingRun, error) {
	blob, err := msgpack.Marshal(result.Series)
	if err != nil {
		return domain.PricingRun{}, fmt.Errorf("failed to encode coefficient series: %w", err)
	}
	return domain.PricingRun{
		ID:            result.ID,
		CreatedAt:     time.Now(),
		Assets:        len(scenario.InitialPrices),
		Strike:        scenario.Strike,
		Maturity:      scenario.Maturity,
		NumDates:      scenario.NumDates,
		TrainingPaths: scenario.TrainingPaths,
		TestPaths:     scenario.TestPaths,
		Degree:        scenario.Degree,
		Price:         result.Price,
		ElapsedMs:     result.Elapsed.Milliseconds(),
		Coefficients:  blob,
	}, nil
}

func (s Scenario) simulationParams(numPaths int, seed *uint64) simulation.Parameters {
	dividends := s.DividendYields
	if len(dividends) == 0 {
		dividends = make([]float64, len(s.InitialPrices))
	}
	return simulation.Parameters{
		InitialPrices:  s.InitialPrices,
		RiskFreeRate:   s.RiskFreeRate,
		DividendYields: dividends,
		Volatilities:   s.Volatilities,
		Maturity:       s.Maturity,
		NumDates:       s.NumDates,
		NumPaths:       numPaths,
		Seed:           seed,
		Precision:      s.Precision,
	}
}
