package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

func lapTime(t float64) *float64 { return &t }

func compound(c string) *string { return &c }

func lapSeries(compoundName string, times ...float64) []model.Lap {
	laps := make([]model.Lap, len(times))
	for i, t := range times {
		laps[i] = model.Lap{
			LapNumber: i + 1,
			LapTime:   lapTime(t),
			Compound:  compound(compoundName),
		}
	}
	return laps
}

func TestSummaryInsufficientLaps(t *testing.T) {
	summary, ok := Summary([]float64{90, 91, 92, 93})
	assert.False(t, ok)
	assert.Nil(t, summary)
}

func TestSummaryAllLapsIdentical(t *testing.T) {
	summary, ok := Summary([]float64{90, 90, 90, 90, 90, 90})
	require.True(t, ok)
	// IQR is zero, the fence still keeps every lap
	assert.Equal(t, 6, summary.TotalLaps)
	assert.Equal(t, 6, summary.CleanLaps)
	assert.InDelta(t, 90, summary.AveragePace, 1e-9)
	assert.InDelta(t, 0, summary.Consistency, 1e-9)
	assert.InDelta(t, 90, summary.FastestLap, 1e-9)
}

func TestSummaryFiltersOutliers(t *testing.T) {
	summary, ok := Summary([]float64{90, 90.5, 91, 90.2, 90.8, 120})
	require.True(t, ok)
	assert.Equal(t, 6, summary.TotalLaps)
	assert.Equal(t, 5, summary.CleanLaps)
	// average over the clean subset only
	assert.InDelta(t, 90.5, summary.AveragePace, 1e-9)
	// fastest lap over the unfiltered set
	assert.InDelta(t, 90, summary.FastestLap, 1e-9)
	assert.Greater(t, summary.Consistency, 0.0)
}

func TestSummaryCleanNeverExceedsTotal(t *testing.T) {
	sets := [][]float64{
		{90, 90, 90, 90, 90},
		{85, 92, 101, 88, 95, 150, 86},
		{60, 200, 61, 199, 62, 198},
	}
	for _, lapTimes := range sets {
		summary, ok := Summary(lapTimes)
		require.True(t, ok)
		assert.LessOrEqual(t, summary.CleanLaps, summary.TotalLaps)
		assert.Positive(t, summary.CleanLaps)
	}
}

func TestSummariesSkipsSparseDrivers(t *testing.T) {
	lapsByDriver := map[string][]model.Lap{
		"VER": lapSeries("MEDIUM", 88, 88.2, 88.4, 88.1, 88.3),
		"HAM": lapSeries("MEDIUM", 89, 89.1, 89.2), // below minimum
	}
	// a lap without a time must be dropped, not counted as zero
	lapsByDriver["VER"] = append(lapsByDriver["VER"],
		model.Lap{LapNumber: 6, Compound: compound("MEDIUM")})

	result := Summaries(lapsByDriver)
	require.Len(t, result, 1)
	summary := result["VER"]
	assert.Equal(t, "VER", summary.Driver)
	assert.Equal(t, 5, summary.TotalLaps)
}

func TestDetectPitStops(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, LapTime: lapTime(90), Compound: compound("MEDIUM")},
		{LapNumber: 2, LapTime: lapTime(90), Compound: compound("MEDIUM")},
		{LapNumber: 3, LapTime: lapTime(90), Compound: compound("MEDIUM")},
		{LapNumber: 4, LapTime: lapTime(90), Compound: compound("MEDIUM")},
		{LapNumber: 5, LapTime: lapTime(140), Compound: compound("HARD")},
	}
	events := DetectPitStops("LEC", laps)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "LEC", ev.Driver)
	assert.Equal(t, 5, ev.LapNumber)
	assert.InDelta(t, 50, ev.PitTimeDelta, 1e-9)
	require.NotNil(t, ev.CompoundBefore)
	assert.Equal(t, "MEDIUM", *ev.CompoundBefore)
	require.NotNil(t, ev.CompoundAfter)
	assert.Equal(t, "HARD", *ev.CompoundAfter)
}

func TestDetectPitStopsNeedsThreeLaps(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, LapTime: lapTime(90)},
		{LapNumber: 2, LapTime: lapTime(140)},
	}
	assert.Nil(t, DetectPitStops("ALO", laps))
}

func TestDetectPitStopsMissingPreviousLap(t *testing.T) {
	laps := []model.Lap{
		{LapNumber: 1, LapTime: lapTime(90), Compound: compound("SOFT")},
		{LapNumber: 2, LapTime: lapTime(90), Compound: compound("SOFT")},
		{LapNumber: 3, LapTime: lapTime(90), Compound: compound("SOFT")},
		// lap 4 has no recorded time and is dropped beforehand
		{LapNumber: 4, Compound: compound("SOFT")},
		{LapNumber: 5, LapTime: lapTime(140), Compound: compound("MEDIUM")},
	}
	events := DetectPitStops("NOR", laps)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].CompoundBefore)
}

func TestEstimateDegradationSlopeSign(t *testing.T) {
	degrading := map[string][]model.Lap{
		"VER": lapSeries("SOFT", 80, 81, 82, 83),
	}
	result := EstimateDegradation(degrading)
	require.Len(t, result, 1)
	assert.Equal(t, "SOFT", result[0].Compound)
	assert.InDelta(t, 1.0, result[0].SlopeSecondsPerLap, 1e-9)
	assert.Equal(t, 1, result[0].Stints)

	improving := map[string][]model.Lap{
		"VER": lapSeries("SOFT", 83, 82, 81, 80),
	}
	result = EstimateDegradation(improving)
	require.Len(t, result, 1)
	assert.InDelta(t, -1.0, result[0].SlopeSecondsPerLap, 1e-9)
}

func TestEstimateDegradationAveragesDrivers(t *testing.T) {
	lapsByDriver := map[string][]model.Lap{
		"HAM": lapSeries("MEDIUM", 80, 81, 82, 83),     // slope 1.0
		"RUS": lapSeries("MEDIUM", 80, 82, 84, 86),     // slope 2.0
		"SAI": lapSeries("HARD", 90, 90.5, 91, 91.5),   // slope 0.5
	}
	result := EstimateDegradation(lapsByDriver)
	require.Len(t, result, 2)
	// sorted by compound
	assert.Equal(t, "HARD", result[0].Compound)
	assert.InDelta(t, 0.5, result[0].SlopeSecondsPerLap, 1e-9)
	assert.Equal(t, "MEDIUM", result[1].Compound)
	assert.InDelta(t, 1.5, result[1].SlopeSecondsPerLap, 1e-9)
	assert.Equal(t, 2, result[1].Stints)
}

func TestEstimateDegradationNeutralDefault(t *testing.T) {
	// compound appears, but no driver has enough laps on it
	lapsByDriver := map[string][]model.Lap{
		"OCO": lapSeries("WET", 95, 96),
	}
	result := EstimateDegradation(lapsByDriver)
	require.Len(t, result, 1)
	assert.Equal(t, "WET", result[0].Compound)
	assert.InDelta(t, 0.0, result[0].SlopeSecondsPerLap, 1e-9)
	assert.Equal(t, 0, result[0].Stints)
}

func TestStintDegradationsSkipsLapsWithoutCompound(t *testing.T) {
	laps := lapSeries("SOFT", 80, 81, 82, 83)
	laps = append(laps, model.Lap{LapNumber: 5, LapTime: lapTime(84)}) // no compound
	stints := StintDegradations(map[string][]model.Lap{"PIA": laps})
	require.Len(t, stints, 1)
	assert.Equal(t, "PIA", stints[0].Driver)
	assert.Equal(t, "SOFT", stints[0].Compound)
	assert.InDelta(t, 1.0, stints[0].SlopeSecondsPerLap, 1e-9)
}
