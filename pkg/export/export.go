// Package export renders analysis results as CSV and monitor history as
// JSON. All writers emit a header row and format times with millisecond
// precision.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ohler55/ojg/oj"

	"github.com/racelytics/f1-analysis-service-go/pkg/model"
)

func WritePaceCSV(w io.Writer, summaries map[string]model.PaceSummary, order []string) error {
	cw := csv.NewWriter(w)
	header := []string{
		"driver", "average_pace", "consistency", "fastest_lap",
		"total_laps", "clean_laps",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing pace header: %w", err)
	}
	for _, driver := range order {
		s, ok := summaries[driver]
		if !ok {
			continue
		}
		rec := []string{
			s.Driver,
			num(s.AveragePace),
			num(s.Consistency),
			num(s.FastestLap),
			strconv.Itoa(s.TotalLaps),
			strconv.Itoa(s.CleanLaps),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing pace row for %s: %w", driver, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WritePitStopsCSV(w io.Writer, stops []model.PitStopEvent) error {
	cw := csv.NewWriter(w)
	header := []string{
		"driver", "lap", "pit_time_delta", "compound_before", "compound_after",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing pit stop header: %w", err)
	}
	for _, stop := range stops {
		rec := []string{
			stop.Driver,
			strconv.Itoa(stop.LapNumber),
			num(stop.PitTimeDelta),
			optional(stop.CompoundBefore),
			optional(stop.CompoundAfter),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing pit stop row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteDegradationCSV(w io.Writer, degs []model.CompoundDegradation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"compound", "slope_s_per_lap", "stints"}); err != nil {
		return fmt.Errorf("writing degradation header: %w", err)
	}
	for _, d := range degs {
		rec := []string{
			d.Compound,
			num(d.SlopeSecondsPerLap),
			strconv.Itoa(d.Stints),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing degradation row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSegmentsCSV(w io.Writer, driver string, events []model.SegmentEvent) error {
	cw := csv.NewWriter(w)
	header := []string{
		"driver", "kind", "start_distance", "end_distance",
		"entry_speed", "exit_speed", "min_speed", "max_brake",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing segment header: %w", err)
	}
	for _, ev := range events {
		rec := []string{
			driver,
			string(ev.Kind),
			num(ev.StartDistance),
			num(ev.EndDistance),
			num(ev.EntrySpeed),
			num(ev.ExitSpeed),
			num(ev.MinSpeed),
			num(ev.MaxBrake),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing segment row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoryJSON dumps retained snapshots as a JSON array, oldest
// first.
func WriteHistoryJSON(w io.Writer, history []*model.Snapshot) error {
	out, err := oj.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
