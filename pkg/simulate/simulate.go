// Package simulate fabricates live timing data for demos and tests. It
// implements the monitor's feed capability with a fixed driver roster,
// drifting weather and a mostly-green track status.
package simulate

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

var roster = []string{
	"HAM", "VER", "LEC", "RUS", "SAI", "NOR", "PER", "ALO", "OCO", "GAS",
}

const (
	baseLapTime   = 90.0 // seconds
	driverSpread  = 0.3  // seconds added per grid position
	gapPerSpot    = 0.8  // seconds gap to leader per position
	greenFraction = 0.85
)

var cautionStatuses = []string{
	model.TrackStatusYellow,
	model.TrackStatusRed,
	model.TrackStatusSafetyCar,
	model.TrackStatusVirtualSC,
}

type Feed struct {
	rnd   *rand.Rand
	start time.Time
	now   func() time.Time
	polls int
}

type Option func(f *Feed)

// WithSeed makes the generated data reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Feed) { f.rnd = rand.New(rand.NewPCG(seed, seed)) }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

func New(opts ...Option) *Feed {
	f := &Feed{
		rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.start = f.now()
	return f
}

// Fetch produces one simulated snapshot. It never fails; transient feed
// errors are exercised with test doubles instead.
func (f *Feed) Fetch(_ context.Context) (*model.Snapshot, error) {
	ts := f.now()
	f.polls++
	sessionTime := ts.Sub(f.start).Seconds()

	standings := make([]model.DriverTiming, len(roster))
	for i, driver := range roster {
		lastLap := baseLapTime + float64(i)*driverSpread + f.rnd.Float64()
		standings[i] = model.DriverTiming{
			Driver:       driver,
			Position:     i + 1,
			LastLapTime:  lastLap,
			BestLapTime:  lastLap - 0.5 - f.rnd.Float64()*0.3,
			GapToLeader:  float64(i) * gapPerSpot,
			Sector1:      20 + float64(i)*0.1,
			Sector2:      35 + float64(i)*0.15,
			Sector3:      25 + float64(i)*0.12,
			SpeedTrap:    320 - float64(i)*2,
			TireCompound: "MEDIUM",
			TireAge:      f.polls % 30,
			PitStops:     f.polls / 100,
		}
	}

	return &model.Snapshot{
		Timestamp:   ts,
		SessionTime: sessionTime,
		Standings:   standings,
		Weather:     f.weather(sessionTime),
		TrackStatus: f.trackStatus(),
	}, nil
}

func (f *Feed) weather(sessionTime float64) model.Weather {
	drift := sessionTime / 3600
	return model.Weather{
		AirTemp:       25 + drift + f.rnd.Float64(),
		TrackTemp:     35 + drift*1.5 + f.rnd.Float64(),
		Humidity:      60 + f.rnd.Float64()*10,
		WindSpeed:     5 + f.rnd.Float64()*2,
		WindDirection: f.rnd.IntN(360),
		Rainfall:      0,
		Pressure:      1013.25,
	}
}

func (f *Feed) trackStatus() string {
	if f.rnd.Float64() < greenFraction {
		return model.TrackStatusGreen
	}
	return cautionStatuses[f.rnd.IntN(len(cautionStatuses))]
}
