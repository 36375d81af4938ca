package models

import "math"

// Holding is a single disclosed position within a fund. Weight is expressed
// in percentage points of fund NAV and may be negative for short exposure.
type Holding struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

// FundSet is an ordered collection of funds. Order matters: it is the
// display order of the dashboard and must survive aggregation.
type FundSet struct {
	Names    []string
	Holdings map[string][]Holding
}

// Len returns the number of funds in the set.
func (fs *FundSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.Names)
}

// HoldingDetail is a holding enriched with the latest observed change.
// Change is nil when no price data was obtainable for the symbol.
type HoldingDetail struct {
	Symbol string   `json:"symbol"`
	Weight float64  `json:"weight"`
	Change *float64 `json:"change"`
	Source string   `json:"source"`
}

// FundResult is the per-fund output of one aggregation pass. JSON tags match
// the durable snapshot format, which doubles as the API payload.
type FundResult struct {
	Name string `json:"name"`
	// ImpliedMove is rounded to 3 decimals for reporting. Threshold
	// comparisons use RawMove, which keeps full precision.
	ImpliedMove   float64         `json:"implied_move"`
	TrackedWeight float64         `json:"tracked_weight"`
	Status        string          `json:"status"`
	Holdings      []HoldingDetail `json:"holdings"`
	RawMove       float64         `json:"-"`
}

// Fund status values. UP also covers a flat (zero) implied move.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Snapshot is the full result set of one aggregation pass.
type Snapshot struct {
	LastUpdated string       `json:"last_updated"`
	CEFs        []FundResult `json:"cefs"`
}

// AlertLevel is the escalation state of a fund within one trading day.
type AlertLevel int

const (
	AlertNone     AlertLevel = 0
	AlertWarning  AlertLevel = 1
	AlertCritical AlertLevel = 2
)

// Alert thresholds on the absolute implied move, in percentage points.
const (
	WarningThreshold  = 0.5
	CriticalThreshold = 1.0
)

// LevelFor maps an implied move to its alert level, highest threshold first.
func LevelFor(move float64) AlertLevel {
	abs := math.Abs(move)
	switch {
	case abs >= CriticalThreshold:
		return AlertCritical
	case abs >= WarningThreshold:
		return AlertWarning
	default:
		return AlertNone
	}
}

// AlertEvent is the record published to the alert topic on escalation.
type AlertEvent struct {
	Fund          string  `json:"fund"`
	Level         int     `json:"level"`
	Direction     string  `json:"direction"`
	ImpliedMove   float64 `json:"implied_move"`
	TrackedWeight float64 `json:"tracked_weight"`
	Timestamp     int64   `json:"timestamp"`
}
