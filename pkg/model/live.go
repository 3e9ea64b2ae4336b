package model

import "time"

const (
	TrackStatusGreen     = "GREEN"
	TrackStatusYellow    = "YELLOW"
	TrackStatusRed       = "RED"
	TrackStatusSafetyCar = "SC"
	TrackStatusVirtualSC = "VSC"
)

// DriverTiming is one driver's live timing line within a snapshot.
type DriverTiming struct {
	Driver       string  `json:"driver"`
	Position     int     `json:"position"`
	LastLapTime  float64 `json:"lastLapTime"` // seconds
	BestLapTime  float64 `json:"bestLapTime"` // seconds
	GapToLeader  float64 `json:"gapToLeader"` // seconds, 0 for the leader
	Sector1      float64 `json:"sector1"`
	Sector2      float64 `json:"sector2"`
	Sector3      float64 `json:"sector3"`
	SpeedTrap    float64 `json:"speedTrap"` // km/h
	TireCompound string  `json:"tireCompound"`
	TireAge      int     `json:"tireAge"` // laps
	PitStops     int     `json:"pitStops"`
}

type Weather struct {
	AirTemp       float64 `json:"airTemp"`       // deg C
	TrackTemp     float64 `json:"trackTemp"`     // deg C
	Humidity      float64 `json:"humidity"`      // percent
	WindSpeed     float64 `json:"windSpeed"`     // m/s
	WindDirection int     `json:"windDirection"` // degrees
	Rainfall      float64 `json:"rainfall"`      // mm
	Pressure      float64 `json:"pressure"`      // hPa
}

// Snapshot is one timestamped capture of all drivers' live timing plus
// weather and track status. Created by the aggregator on each poll and
// immutable once inserted into history.
type Snapshot struct {
	Timestamp   time.Time      `json:"timestamp"`
	SessionTime float64        `json:"sessionTime"` // seconds since session start
	Standings   []DriverTiming `json:"standings"`   // ordered by position
	Weather     Weather        `json:"weather"`
	TrackStatus string         `json:"trackStatus"`
}

// SessionStats summarizes a monitoring session from its retained history.
// CurrentLeader is empty and FastestLap zero while no snapshot was received.
type SessionStats struct {
	Duration      time.Duration `json:"duration"`
	TotalUpdates  int           `json:"totalUpdates"` // successful polls since start
	CurrentLeader string        `json:"currentLeader,omitempty"`
	FastestLap    float64       `json:"fastestLap,omitempty"` // best lap seen in history
	DriverCount   int           `json:"driverCount"`
}
