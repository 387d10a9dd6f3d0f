package domain

import "time"

// PricingRun is one persisted pricing result. Coefficients holds the trained
// series encoded with msgpack so a stored policy can be inspected or
// replayed later.
type PricingRun struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Assets        int       `json:"assets"`
	Strike        float64   `json:"strike"`
	Maturity      float64   `json:"maturity"`
	NumDates      int       `json:"num_dates"`
	TrainingPaths int       `json:"training_paths"`
	TestPaths     int       `json:"test_paths"`
	Degree        int       `json:"degree"`
	Price         float64   `json:"price"`
	ElapsedMs     int64     `json:"elapsed_ms"`
	Coefficients  []byte    `json:"-"`
}
