package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

// lap with two distinct corners
func twoCornerLap() []model.TelemetrySample {
	speeds := []float64{
		280, 282, 265, 220, 180, 178, 190, 240, // corner 1: idx 2..6
		250, 255, 230, 190, 185, 210, 260, // corner 2: idx 10..13
	}
	samples := make([]model.TelemetrySample, len(speeds))
	for i, s := range speeds {
		samples[i] = model.TelemetrySample{
			Distance: float64(i) * 50,
			Speed:    s,
			Gear:     6,
		}
	}
	return samples
}

func TestCorners(t *testing.T) {
	samples := twoCornerLap()
	events := Corners(samples)

	assert.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, model.SegmentCorner, first.Kind)
	assert.Equal(t, 2, first.StartIndex)
	assert.Equal(t, 6, first.EndIndex)
	assert.InDelta(t, 265, first.EntrySpeed, 1e-9)
	assert.InDelta(t, 190, first.ExitSpeed, 1e-9)
	assert.InDelta(t, 178, first.MinSpeed, 1e-9)
	assert.InDelta(t, 100, first.StartDistance, 1e-9)
	assert.InDelta(t, 300, first.EndDistance, 1e-9)

	second := events[1]
	assert.Equal(t, 10, second.StartIndex)
	assert.Equal(t, 13, second.EndIndex)
	assert.InDelta(t, 185, second.MinSpeed, 1e-9)
}

func TestCornersNonOverlapping(t *testing.T) {
	events := Corners(twoCornerLap())
	for i := 1; i < len(events); i++ {
		assert.LessOrEqual(t, events[i-1].EndIndex, events[i].StartIndex)
		assert.LessOrEqual(t, events[i-1].EndDistance, events[i].StartDistance)
	}
	for _, ev := range events {
		assert.Less(t, ev.StartIndex, ev.EndIndex)
		assert.LessOrEqual(t, ev.StartDistance, ev.EndDistance)
	}
}

func TestCornersDeterministic(t *testing.T) {
	samples := twoCornerLap()
	first := Corners(samples)
	second := Corners(samples)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("detection not deterministic: %s", diff)
	}
}

func TestCornersNoTrailingEvent(t *testing.T) {
	// lap ends while still decelerating: the open segment is discarded
	speeds := []float64{280, 282, 260, 220, 180, 150}
	samples := make([]model.TelemetrySample, len(speeds))
	for i, s := range speeds {
		samples[i] = model.TelemetrySample{Distance: float64(i) * 50, Speed: s}
	}
	assert.Empty(t, Corners(samples))
}

func TestCornersShortInput(t *testing.T) {
	assert.Empty(t, Corners(nil))
	assert.Empty(t, Corners([]model.TelemetrySample{}))
	assert.Empty(t, Corners([]model.TelemetrySample{{Speed: 200}}))
}

func TestBrakingZones(t *testing.T) {
	brakes := []float64{0, 10, 65, 85, 95, 40, 0, 70, 80, 30}
	samples := make([]model.TelemetrySample, len(brakes))
	for i, b := range brakes {
		samples[i] = model.TelemetrySample{
			Distance: float64(i) * 40,
			Speed:    300 - float64(i)*10,
			Brake:    b,
		}
	}
	events := BrakingZones(samples)

	assert.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, model.SegmentBrakingZone, first.Kind)
	assert.Equal(t, 2, first.StartIndex)
	assert.Equal(t, 5, first.EndIndex)
	assert.InDelta(t, 95, first.MaxBrake, 1e-9)
	assert.InDelta(t, 280, first.EntrySpeed, 1e-9)
	assert.InDelta(t, 250, first.ExitSpeed, 1e-9)

	second := events[1]
	assert.Equal(t, 7, second.StartIndex)
	assert.Equal(t, 9, second.EndIndex)
	assert.InDelta(t, 80, second.MaxBrake, 1e-9)
}

func TestBrakingZoneOpenAtLapEnd(t *testing.T) {
	brakes := []float64{0, 60, 90, 95}
	samples := make([]model.TelemetrySample, len(brakes))
	for i, b := range brakes {
		samples[i] = model.TelemetrySample{Distance: float64(i) * 40, Brake: b}
	}
	assert.Empty(t, BrakingZones(samples))
}

func TestDetectCustomThresholds(t *testing.T) {
	brakes := []float64{0, 30, 40, 10}
	samples := make([]model.TelemetrySample, len(brakes))
	for i, b := range brakes {
		samples[i] = model.TelemetrySample{Distance: float64(i) * 40, Brake: b}
	}
	// default threshold sees nothing
	assert.Empty(t, BrakingZones(samples))
	// lowered threshold picks up the light braking
	events := Detect(samples, SignalBrakePressure, 25, 25)
	assert.Len(t, events, 1)
	assert.Equal(t, 1, events[0].StartIndex)
	assert.Equal(t, 3, events[0].EndIndex)
	assert.InDelta(t, 40, events[0].MaxBrake, 1e-9)
}

func TestDetectUnknownSignal(t *testing.T) {
	assert.Nil(t, Detect(twoCornerLap(), Signal("unknown"), 0, 0))
}
