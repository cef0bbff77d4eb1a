// Package snapshot defines the immutable per-request view of the user's
// current context. All reads are defensive: missing or malformed fields
// resolve to zero values, never to errors.
package snapshot

import (
	"math"
	"time"
)

// Location is a named coordinate pair.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event is one calendar entry as supplied by the caller.
type Event struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Title    string `json:"event"`
	Duration string `json:"duration"`
	Location string `json:"location"`
}

// LocationPoint is one historical location visit.
type LocationPoint struct {
	Timestamp string  `json:"timestamp"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Snapshot is the immutable request payload. CalendarEvents keep the
// caller's chronological order and are never re-sorted by the core.
// UserData is opaque key-value data passed through to agents.
type Snapshot struct {
	CurrentLocation Location        `json:"current_location"`
	Timestamp       string          `json:"timestamp"` // ISO-8601
	CalendarEvents  []Event         `json:"calendar_events"`
	UserData        map[string]any  `json:"user_data"`
	LocationHistory []LocationPoint `json:"location_history"`

	// ManualScenario, when set, always wins over detection.
	ManualScenario string `json:"manual_scenario,omitempty"`
}

// Fallback clock values used when the timestamp does not parse.
const (
	FallbackHour    = 9
	FallbackWeekday = time.Tuesday
)

// Clock returns the hour of day and weekday parsed from the snapshot
// timestamp. Parse failures yield the fixed fallback values.
func (s *Snapshot) Clock() (int, time.Weekday) {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return FallbackHour, FallbackWeekday
	}
	return t.Hour(), t.Weekday()
}

// Time returns the parsed timestamp, or false if it does not parse.
func (s *Snapshot) Time() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NextEvent returns the first calendar event, or nil when the calendar is
// empty.
func (s *Snapshot) NextEvent() *Event {
	if len(s.CalendarEvents) == 0 {
		return nil
	}
	return &s.CalendarEvents[0]
}

// UpcomingEvents returns at most n leading calendar events.
func (s *Snapshot) UpcomingEvents(n int) []Event {
	if len(s.CalendarEvents) < n {
		n = len(s.CalendarEvents)
	}
	return s.CalendarEvents[:n]
}

// Distance is the approximate flat-Earth Euclidean distance between two
// coordinate pairs, in degrees. Good enough for "am I at home" thresholds.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Sqrt((lat1-lat2)*(lat1-lat2) + (lon1-lon2)*(lon1-lon2))
}

// NearbyThreshold is the coordinate distance under which two points count as
// the same place (~1km at mid latitudes).
const NearbyThreshold = 0.01

// AtHome reports whether the current location is within the threshold of the
// configured home coordinates in UserData.
func (s *Snapshot) AtHome() bool {
	lat, lon, ok := s.coords("home")
	if !ok {
		return false
	}
	return Distance(s.CurrentLocation.Latitude, s.CurrentLocation.Longitude, lat, lon) < NearbyThreshold
}

// AtWork reports whether the current location is within the threshold of the
// configured work coordinates in UserData.
func (s *Snapshot) AtWork() bool {
	lat, lon, ok := s.coords("work")
	if !ok {
		return false
	}
	return Distance(s.CurrentLocation.Latitude, s.CurrentLocation.Longitude, lat, lon) < NearbyThreshold
}

func (s *Snapshot) coords(place string) (float64, float64, bool) {
	coords := s.Map("location", place, "coordinates")
	if coords == nil {
		return 0, 0, false
	}
	lat, latOK := toFloat(coords["latitude"])
	lon, lonOK := toFloat(coords["longitude"])
	return lat, lon, latOK && lonOK
}

// String walks the given key path through UserData and returns the string
// value at the end, or "" when any step is missing or mistyped.
func (s *Snapshot) String(path ...string) string {
	v := s.value(path...)
	str, _ := v.(string)
	return str
}

// Map walks the given key path through UserData and returns the map value at
// the end, or nil.
func (s *Snapshot) Map(path ...string) map[string]any {
	v := s.value(path...)
	m, _ := v.(map[string]any)
	return m
}

// List walks the given key path through UserData and returns the slice value
// at the end, or nil.
func (s *Snapshot) List(path ...string) []any {
	v := s.value(path...)
	l, _ := v.([]any)
	return l
}

func (s *Snapshot) value(path ...string) any {
	var current any = s.UserData
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
