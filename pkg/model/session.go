package model

import "sort"

// Session is a fully loaded session: per-driver lap series plus the
// fastest-lap telemetry trace per driver. Produced by the session provider;
// consumers treat it as read-only.
type Session struct {
	Name      string                       `json:"name"`
	Track     string                       `json:"track"`
	Laps      map[string][]Lap             `json:"laps"`      // key: driver
	Telemetry map[string][]TelemetrySample `json:"telemetry"` // key: driver, fastest lap
}

// Drivers returns the drivers with at least one recorded lap, sorted.
func (s *Session) Drivers() []string {
	drivers := make([]string, 0, len(s.Laps))
	for d := range s.Laps {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}
