package model

// Lap is one recorded lap of a driver. LapTime and Compound are nil when
// the source did not record them; such laps are dropped before statistics
// instead of contributing zeros.
type Lap struct {
	LapNumber int      `json:"lap"`
	LapTime   *float64 `json:"time,omitempty"` // seconds
	Compound  *string  `json:"compound,omitempty"`
}

// Valid reports whether the lap carries a usable lap time.
func (l Lap) Valid() bool {
	return l.LapTime != nil && *l.LapTime > 0
}

// PaceSummary is the outlier-filtered race pace of one driver.
// CleanLaps <= TotalLaps always holds.
type PaceSummary struct {
	Driver      string  `json:"driver"`
	AveragePace float64 `json:"averagePace"` // mean of clean laps, seconds
	Consistency float64 `json:"consistency"` // sample stddev of clean laps
	FastestLap  float64 `json:"fastestLap"`  // minimum over all laps
	TotalLaps   int     `json:"totalLaps"`
	CleanLaps   int     `json:"cleanLaps"`
}

// PitStopEvent marks a lap classified as a pit-stop lap. The classification
// is a median-ratio heuristic; anomalously slow laps (yellow flags) will be
// misclassified as well.
type PitStopEvent struct {
	Driver         string   `json:"driver"`
	LapNumber      int      `json:"lap"`
	PitTimeDelta   float64  `json:"pitTimeDelta"` // seconds above the median lap
	CompoundBefore *string  `json:"compoundBefore,omitempty"`
	CompoundAfter  *string  `json:"compoundAfter,omitempty"`
}

// StintDegradation is the fitted lap-time slope of one driver's laps on one
// compound. Positive slope: the tire is getting slower.
type StintDegradation struct {
	Driver             string  `json:"driver"`
	Compound           string  `json:"compound"`
	SlopeSecondsPerLap float64 `json:"slopeSecondsPerLap"`
}

// CompoundDegradation averages the stint slopes of all drivers who ran the
// compound. Stints==0 means no driver had enough laps; the slope is then
// the neutral 0.0.
type CompoundDegradation struct {
	Compound           string  `json:"compound"`
	SlopeSecondsPerLap float64 `json:"slopeSecondsPerLap"`
	Stints             int     `json:"stints"`
}
