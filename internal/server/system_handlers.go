package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/lsm-pricer/internal/database/repositories"
)

// SystemHandlers exposes operational status. Memory headroom is reported
// because large dimension sweeps allocate path tensors of tens of millions
// of values.
type SystemHandlers struct {
	log       zerolog.Logger
	runRepo   *repositories.PricingRunRepository
	startedAt time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(runRepo *repositories.PricingRunRepository, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		runRepo:   runRepo,
		startedAt: time.Now(),
	}
}

// StatusResponse represents the system status response
type StatusResponse struct {
	UptimeSeconds   int64   `json:"uptime_seconds"`
	StoredRuns      int     `json:"stored_runs"`
	NumCPU          int     `json:"num_cpu"`
	MemUsedPercent  float64 `json:"mem_used_percent"`
	MemAvailableMB  float64 `json:"mem_available_mb"`
	HeapAllocatedMB float64 `json:"heap_allocated_mb"`
}

// HandleStatus returns uptime, run count and memory headroom
// GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runRepo.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count pricing runs")
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	response := StatusResponse{
		UptimeSeconds:   int64(time.Since(h.startedAt).Seconds()),
		StoredRuns:      runs,
		NumCPU:          runtime.NumCPU(),
		HeapAllocatedMB: float64(ms.HeapAlloc) / 1024 / 1024,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		response.MemUsedPercent = vm.UsedPercent
		response.MemAvailableMB = float64(vm.Available) / 1024 / 1024
	} else {
		h.log.Warn().Err(err).Msg("Failed to read system memory stats")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
