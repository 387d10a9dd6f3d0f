package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/lsm-pricer/internal/config"
	"github.com/aristath/lsm-pricer/internal/database/repositories"
	"github.com/aristath/lsm-pricer/internal/modules/pricing"
	"github.com/aristath/lsm-pricer/internal/modules/simulation"
)

// RepriceJob reprices the configured scenario across each configured asset
// dimension and stores the results. Scenarios are isolated: one dimension
// failing never aborts its siblings.
type RepriceJob struct {
	service *pricing.Service
	repo    *repositories.PricingRunRepository
	cfg     *config.Config
	log     zerolog.Logger
}

// NewRepriceJob creates the scheduled repricing job.
func NewRepriceJob(service *pricing.Service, repo *repositories.PricingRunRepository, cfg *config.Config, log zerolog.Logger) *RepriceJob {
	return &RepriceJob{
		service: service,
		repo:    repo,
		cfg:     cfg,
		log:     log.With().Str("job", "reprice").Logger(),
	}
}

// Name implements Job.
func (j *RepriceJob) Name() string { return "reprice" }

// Run implements Job.
func (j *RepriceJob) Run() error {
	for _, dim := range j.cfg.RepriceDimensions {
		scenario := j.scenarioForDimension(dim)

		result, err := j.service.Price(scenario)
		if err != nil {
			j.log.Error().Err(err).Int("dimension", dim).Msg("Scenario failed, continuing with siblings")
			continue
		}

		record, err := pricing.NewRunRecord(scenario, result)
		if err != nil {
			j.log.Error().Err(err).Str("run_id", result.ID).Msg("Failed to encode run")
			continue
		}
		if err := j.repo.Save(record); err != nil {
			j.log.Error().Err(err).Str("run_id", result.ID).Msg("Failed to persist run")
		}
	}
	return nil
}

// scenarioForDimension replicates the configured marginal parameters across
// dim independent assets.
func (j *RepriceJob) scenarioForDimension(dim int) pricing.Scenario {
	defaults := j.cfg.Scenario

	initial := make([]float64, dim)
	dividends := make([]float64, dim)
	vols := make([]float64, dim)
	for i := 0; i < dim; i++ {
		initial[i] = defaults.Spot
		dividends[i] = defaults.DividendYield
		vols[i] = defaults.Volatility
	}

	precision := simulation.Float64
	if defaults.ReducedPrecision {
		precision = simulation.Float32
	}

	return pricing.Scenario{
		InitialPrices:  initial,
		RiskFreeRate:   defaults.RiskFreeRate,
		DividendYields: dividends,
		Volatilities:   vols,
		Strike:         defaults.Strike,
		Maturity:       defaults.Maturity,
		NumDates:       defaults.NumDates,
		TrainingPaths:  defaults.TrainingPaths,
		TestPaths:      defaults.TestPaths,
		Degree:         defaults.Degree,
		TrainingSeed:   defaults.TrainingSeed,
		TestSeed:       defaults.TestSeed,
		Precision:      precision,
	}
}
