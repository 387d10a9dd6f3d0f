package pricing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lsm-pricer/internal/database/repositories"
	"github.com/aristath/lsm-pricer/internal/domain"
	"github.com/aristath/lsm-pricer/internal/modules/simulation"
)

// Handler handles HTTP requests for the pricing module.
type Handler struct {
	service *Service
	repo    *repositories.PricingRunRepository
	log     zerolog.Logger
}

// NewHandler creates a new pricing handler.
func NewHandler(service *Service, repo *repositories.PricingRunRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("component", "pricing_handler").Logger(),
	}
}

// RegisterRoutes mounts the pricing routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/price", h.HandlePrice)
	r.Get("/runs", h.HandleListRuns)
}

// PriceRequest is the JSON body for POST /api/pricing/price.
type PriceRequest struct {
	InitialPrices    []float64 `json:"initial_prices"`
	RiskFreeRate     float64   `json:"risk_free_rate"`
	DividendYields   []float64 `json:"dividend_yields,omitempty"`
	Volatilities     []float64 `json:"volatilities"`
	Strike           float64   `json:"strike"`
	Maturity         float64   `json:"maturity"`
	NumDates         int       `json:"num_dates"`
	TrainingPaths    int       `json:"training_paths"`
	TestPaths        int       `json:"test_paths"`
	Degree           int       `json:"degree"`
	TrainingSeed     *uint64   `json:"training_seed,omitempty"`
	TestSeed         *uint64   `json:"test_seed,omitempty"`
	ReducedPrecision bool      `json:"reduced_precision,omitempty"`
}

// PriceResponse is the JSON reply for POST /api/pricing/price.
type PriceResponse struct {
	RunID     string  `json:"run_id"`
	Price     float64 `json:"price"`
	Assets    int     `json:"assets"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

// HandlePrice prices one scenario and persists the run.
// POST /api/pricing/price
func (h *Handler) HandlePrice(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	precision := simulation.Float64
	if req.ReducedPrecision {
		precision = simulation.Float32
	}

	scenario := Scenario{
		InitialPrices:  req.InitialPrices,
		RiskFreeRate:   req.RiskFreeRate,
		DividendYields: req.DividendYields,
		Volatilities:   req.Volatilities,
		Strike:         req.Strike,
		Maturity:       req.Maturity,
		NumDates:       req.NumDates,
		TrainingPaths:  req.TrainingPaths,
		TestPaths:      req.TestPaths,
		Degree:         req.Degree,
		TrainingSeed:   req.TrainingSeed,
		TestSeed:       req.TestSeed,
		Precision:      precision,
	}

	result, err := h.service.Price(scenario)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParameter) || errors.Is(err, domain.ErrCoefficientMismatch) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("Pricing failed")
		http.Error(w, "Pricing failed", http.StatusInternalServerError)
		return
	}

	if err := h.saveRun(scenario, result); err != nil {
		// The price is still valid; log and keep going.
		h.log.Error().Err(err).Str("run_id", result.ID).Msg("Failed to persist pricing run")
	}

	h.writeJSON(w, PriceResponse{
		RunID:     result.ID,
		Price:     result.Price,
		Assets:    len(scenario.InitialPrices),
		ElapsedMs: result.Elapsed.Milliseconds(),
	})
}

// HandleListRuns returns recent persisted runs.
// GET /api/pricing/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.Recent(50)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list pricing runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []domain.PricingRun{}
	}
	h.writeJSON(w, runs)
}

func (h *Handler) saveRun(scenario Scenario, result Result) error {
	record, err := NewRunRecord(scenario, result)
	if err != nil {
		return err
	}
	return h.repo.Save(record)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
