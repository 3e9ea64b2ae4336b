package model

// TelemetrySample is one point of a lap's telemetry trace.
// Samples are ordered by Distance (monotonic non-decreasing) and are
// immutable once produced.
type TelemetrySample struct {
	Distance float64 `json:"distance"` // meters from start/finish line
	Speed    float64 `json:"speed"`    // km/h
	Throttle float64 `json:"throttle"` // percent (0-100)
	Brake    float64 `json:"brake"`    // pressure proxy (0-100)
	Gear     int     `json:"gear"`
}

type SegmentKind string

const (
	SegmentCorner      SegmentKind = "CORNER"
	SegmentBrakingZone SegmentKind = "BRAKING"
)

// SegmentEvent is a detected interval (corner or braking zone) within one
// lap's telemetry. StartIndex < EndIndex; events of one lap never overlap.
type SegmentEvent struct {
	Kind          SegmentKind `json:"kind"`
	StartIndex    int         `json:"startIndex"`
	EndIndex      int         `json:"endIndex"`
	StartDistance float64     `json:"startDistance"`
	EndDistance   float64     `json:"endDistance"`
	EntrySpeed    float64     `json:"entrySpeed"`
	ExitSpeed     float64     `json:"exitSpeed"`
	MinSpeed      float64     `json:"minSpeed,omitempty"` // corners only
	MaxBrake      float64     `json:"maxBrake,omitempty"` // braking zones only
}
