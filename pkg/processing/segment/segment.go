// Package segment detects corners and braking zones in a single lap's
// telemetry trace. Both detectors share one single-pass two-state scan;
// they only differ in the scalar signal driving the state machine and in
// the metric attached to the emitted event.
package segment

import (
	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

// Signal selects the scalar the state machine is driven by.
type Signal string

const (
	// SignalDeceleration uses the first difference of speed between
	// consecutive samples (km/h per sample).
	SignalDeceleration Signal = "deceleration"
	// SignalBrakePressure uses the absolute brake pressure value.
	SignalBrakePressure Signal = "brake_pressure"
)

// Fixed heuristics. These are deliberate literals, not tunables.
const (
	CornerEnterDelta = -10.0 // speed delta below this enters a corner
	CornerExitDelta  = 5.0   // speed delta above this exits a corner
	BrakeThreshold   = 50.0  // brake pressure above this is a braking zone
)

type scanState int

const (
	outside scanState = iota
	inside
)

type detector struct {
	kind model.SegmentKind
	// value of the signal at index i; ok=false when undefined there
	// (the first sample has no speed delta)
	signal func(samples []model.TelemetrySample, i int) (v float64, ok bool)
	enter  func(v float64) bool
	exit   func(v float64) bool
	// fills the kind-specific metric from the samples in [start,end)
	metric func(span []model.TelemetrySample, ev *model.SegmentEvent)
}

// Detect runs the threshold-crossing scan over one lap's ordered samples.
// Empty and single-sample input yield no events; a lap that ends while a
// segment is still open emits no trailing event.
func Detect(
	samples []model.TelemetrySample, sig Signal, enter, exit float64,
) []model.SegmentEvent {
	switch sig {
	case SignalDeceleration:
		return scan(samples, detector{
			kind: model.SegmentCorner,
			signal: func(s []model.TelemetrySample, i int) (float64, bool) {
				if i == 0 {
					return 0, false
				}
				return s[i].Speed - s[i-1].Speed, true
			},
			enter: func(v float64) bool { return v < enter },
			exit:  func(v float64) bool { return v > exit },
			metric: func(span []model.TelemetrySample, ev *model.SegmentEvent) {
				minSpeed := span[0].Speed
				for _, s := range span[1:] {
					if s.Speed < minSpeed {
						minSpeed = s.Speed
					}
				}
				ev.MinSpeed = minSpeed
			},
		})
	case SignalBrakePressure:
		return scan(samples, detector{
			kind: model.SegmentBrakingZone,
			signal: func(s []model.TelemetrySample, i int) (float64, bool) {
				return s[i].Brake, true
			},
			enter: func(v float64) bool { return v > enter },
			exit:  func(v float64) bool { return v <= exit },
			metric: func(span []model.TelemetrySample, ev *model.SegmentEvent) {
				maxBrake := span[0].Brake
				for _, s := range span[1:] {
					if s.Brake > maxBrake {
						maxBrake = s.Brake
					}
				}
				ev.MaxBrake = maxBrake
			},
		})
	}
	return nil
}

// Corners detects corners with the default thresholds: a speed drop
// steeper than -10 km/h per sample enters, a gain above +5 exits.
func Corners(samples []model.TelemetrySample) []model.SegmentEvent {
	return Detect(samples, SignalDeceleration, CornerEnterDelta, CornerExitDelta)
}

// BrakingZones detects braking zones with the default brake pressure
// threshold of 50.
func BrakingZones(samples []model.TelemetrySample) []model.SegmentEvent {
	return Detect(samples, SignalBrakePressure, BrakeThreshold, BrakeThreshold)
}

func scan(samples []model.TelemetrySample, d detector) []model.SegmentEvent {
	if len(samples) < 2 {
		return nil
	}
	var events []model.SegmentEvent
	state := outside
	start := 0
	for i := range samples {
		v, ok := d.signal(samples, i)
		if !ok {
			continue
		}
		switch state {
		case outside:
			if d.enter(v) {
				start = i
				state = inside
			}
		case inside:
			if d.exit(v) {
				ev := model.SegmentEvent{
					Kind:          d.kind,
					StartIndex:    start,
					EndIndex:      i,
					StartDistance: samples[start].Distance,
					EndDistance:   samples[i].Distance,
					EntrySpeed:    samples[start].Speed,
					ExitSpeed:     samples[i].Speed,
				}
				d.metric(samples[start:i], &ev)
				events = append(events, ev)
				state = outside
			}
		}
	}
	return events
}
