// Package pace derives robust race-pace statistics from per-driver lap
// series: Tukey-fence filtered pace summaries, median-ratio pit-stop
// classification and per-compound tire degradation slopes.
package pace

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

const (
	// MinLapsForSummary is the minimum number of recorded lap times for a
	// pace summary; drivers below it are skipped, not an error.
	MinLapsForSummary = 5
	// MinLapsForPitStops is the minimum number of valid laps for the
	// pit-stop classifier.
	MinLapsForPitStops = 3
	// MinLapsPerStint is the minimum number of laps on one compound for a
	// degradation fit.
	MinLapsPerStint = 3

	outlierFence = 1.5 // Tukey fence factor on the IQR
	pitFactor    = 1.5 // laps above pitFactor*median are pit-stop laps
)

// Summary computes the outlier-filtered pace of one driver. The boolean is
// false when fewer than MinLapsForSummary lap times are supplied.
// Quartiles use linear interpolation; lap times outside
// [Q1-1.5*IQR, Q3+1.5*IQR] are excluded from mean and stddev, while the
// fastest lap is taken over the unfiltered set.
func Summary(lapTimes []float64) (*model.PaceSummary, bool) {
	if len(lapTimes) < MinLapsForSummary {
		return nil, false
	}
	sorted := slices.Clone(lapTimes)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - outlierFence*iqr
	upper := q3 + outlierFence*iqr

	clean := lo.Filter(lapTimes, func(t float64, _ int) bool {
		return t >= lower && t <= upper
	})

	return &model.PaceSummary{
		AveragePace: stat.Mean(clean, nil),
		Consistency: stat.StdDev(clean, nil),
		FastestLap:  sorted[0],
		TotalLaps:   len(lapTimes),
		CleanLaps:   len(clean),
	}, true
}

// Summaries computes pace summaries for all drivers with enough laps.
// Laps without a recorded time are dropped first.
func Summaries(lapsByDriver map[string][]model.Lap) map[string]model.PaceSummary {
	result := make(map[string]model.PaceSummary)
	for driver, laps := range lapsByDriver {
		times := validTimes(laps)
		summary, ok := Summary(times)
		if !ok {
			continue
		}
		summary.Driver = driver
		result[driver] = *summary
	}
	return result
}

// DetectPitStops classifies laps slower than pitFactor times the driver's
// median lap as pit-stop laps. Needs at least MinLapsForPitStops valid
// laps, otherwise nil. The compound of the preceding lap number is
// reported when that lap exists; yellow-flag laps can be misclassified,
// which is accepted.
func DetectPitStops(driver string, laps []model.Lap) []model.PitStopEvent {
	valid := lo.Filter(laps, func(l model.Lap, _ int) bool { return l.Valid() })
	if len(valid) < MinLapsForPitStops {
		return nil
	}
	times := make([]float64, len(valid))
	for i, l := range valid {
		times[i] = *l.LapTime
	}
	med := median(times)

	byNumber := make(map[int]model.Lap, len(valid))
	for _, l := range valid {
		byNumber[l.LapNumber] = l
	}

	var events []model.PitStopEvent
	for _, l := range valid {
		if *l.LapTime <= pitFactor*med {
			continue
		}
		ev := model.PitStopEvent{
			Driver:        driver,
			LapNumber:     l.LapNumber,
			PitTimeDelta:  *l.LapTime - med,
			CompoundAfter: l.Compound,
		}
		if prev, ok := byNumber[l.LapNumber-1]; ok {
			ev.CompoundBefore = prev.Compound
		}
		events = append(events, ev)
	}
	return events
}

// EstimateDegradation fits, per driver and compound, a least-squares line
// of lap time against lap number and averages the slopes across drivers
// into one rate per compound. Compounds that appear but have no stint of
// MinLapsPerStint laps report the neutral slope 0.0.
func EstimateDegradation(
	lapsByDriver map[string][]model.Lap,
) []model.CompoundDegradation {
	stints := StintDegradations(lapsByDriver)

	slopes := make(map[string][]float64)
	for _, s := range stints {
		slopes[s.Compound] = append(slopes[s.Compound], s.SlopeSecondsPerLap)
	}
	compounds := make(map[string]struct{})
	for _, laps := range lapsByDriver {
		for _, l := range laps {
			if l.Valid() && l.Compound != nil {
				compounds[*l.Compound] = struct{}{}
			}
		}
	}

	result := make([]model.CompoundDegradation, 0, len(compounds))
	for compound := range compounds {
		entry := model.CompoundDegradation{Compound: compound}
		if rates := slopes[compound]; len(rates) > 0 {
			entry.SlopeSecondsPerLap = stat.Mean(rates, nil)
			entry.Stints = len(rates)
		}
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b model.CompoundDegradation) int {
		return strings.Compare(a.Compound, b.Compound)
	})
	return result
}

// StintDegradations returns the per-driver per-compound fitted slopes.
// A driver's laps on one compound form a stint when at least
// MinLapsPerStint of them carry a time; shorter stints are skipped.
func StintDegradations(
	lapsByDriver map[string][]model.Lap,
) []model.StintDegradation {
	drivers := lo.Keys(lapsByDriver)
	sort.Strings(drivers)

	var result []model.StintDegradation
	for _, driver := range drivers {
		byCompound := make(map[string][]model.Lap)
		var order []string
		for _, l := range lapsByDriver[driver] {
			if !l.Valid() || l.Compound == nil {
				continue
			}
			if _, ok := byCompound[*l.Compound]; !ok {
				order = append(order, *l.Compound)
			}
			byCompound[*l.Compound] = append(byCompound[*l.Compound], l)
		}
		for _, compound := range order {
			laps := byCompound[compound]
			if len(laps) < MinLapsPerStint {
				continue
			}
			xs := make([]float64, len(laps))
			ys := make([]float64, len(laps))
			for i, l := range laps {
				xs[i] = float64(l.LapNumber)
				ys[i] = *l.LapTime
			}
			_, slope := stat.LinearRegression(xs, ys, nil, false)
			result = append(result, model.StintDegradation{
				Driver:             driver,
				Compound:           compound,
				SlopeSecondsPerLap: slope,
			})
		}
	}
	return result
}

func validTimes(laps []model.Lap) []float64 {
	var times []float64
	for _, l := range laps {
		if l.Valid() {
			times = append(times, *l.LapTime)
		}
	}
	return times
}

// quantile interpolates linearly between order statistics (the convention
// of numpy/pandas, which differs from gonum's cumulant kinds).
// sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

func median(values []float64) float64 {
	sorted := slices.Clone(values)
	sort.Float64s(sorted)
	return quantile(sorted, 0.5)
}
