package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		hour      int
		weekday   time.Weekday
	}{
		{"valid timestamp", "2025-03-12T08:30:00Z", 8, time.Wednesday},
		{"with offset", "2025-03-15T22:15:00+01:00", 22, time.Saturday},
		{"empty falls back", "", FallbackHour, FallbackWeekday},
		{"garbage falls back", "yesterday-ish", FallbackHour, FallbackWeekday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &Snapshot{Timestamp: tt.timestamp}
			hour, weekday := snap.Clock()
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.weekday, weekday)
		})
	}
}

func TestNextEvent(t *testing.T) {
	empty := &Snapshot{}
	assert.Nil(t, empty.NextEvent())

	snap := &Snapshot{CalendarEvents: []Event{
		{Title: "Standup", Time: "09:30"},
		{Title: "Lunch", Time: "12:30"},
	}}
	next := snap.NextEvent()
	assert.Equal(t, "Standup", next.Title)

	// Calendar order is the caller's order; never re-sorted.
	upcoming := snap.UpcomingEvents(5)
	assert.Len(t, upcoming, 2)
	assert.Equal(t, "Standup", upcoming[0].Title)
}

func TestAtHomeAtWork(t *testing.T) {
	snap := &Snapshot{
		CurrentLocation: Location{Name: "Flat", Latitude: 51.5265, Longitude: -0.0825},
		UserData: map[string]any{
			"location": map[string]any{
				"home": map[string]any{
					"coordinates": map[string]any{"latitude": 51.5265, "longitude": -0.0825},
				},
				"work": map[string]any{
					"coordinates": map[string]any{"latitude": 51.5045, "longitude": -0.0865},
				},
			},
		},
	}
	assert.True(t, snap.AtHome())
	assert.False(t, snap.AtWork())

	snap.CurrentLocation = Location{Name: "Office", Latitude: 51.5046, Longitude: -0.0864}
	assert.False(t, snap.AtHome())
	assert.True(t, snap.AtWork())
}

func TestAtHomeMissingCoordinates(t *testing.T) {
	assert.False(t, (&Snapshot{}).AtHome())
	assert.False(t, (&Snapshot{UserData: map[string]any{"location": "nowhere"}}).AtHome())
}

func TestDefensivePathWalkers(t *testing.T) {
	snap := &Snapshot{UserData: map[string]any{
		"profession": "software engineer",
		"fitness_data": map[string]any{
			"sleep": map[string]any{"quality": "poor"},
		},
		"contacts": []any{map[string]any{"name": "Mike"}},
	}}

	assert.Equal(t, "software engineer", snap.String("profession"))
	assert.Equal(t, "poor", snap.String("fitness_data", "sleep", "quality"))
	assert.Len(t, snap.List("contacts"), 1)

	// Every miss and type mismatch resolves to a zero value.
	assert.Equal(t, "", snap.String("missing"))
	assert.Equal(t, "", snap.String("fitness_data", "sleep", "quality", "deeper"))
	assert.Nil(t, snap.Map("profession"))
	assert.Nil(t, snap.List("fitness_data"))
	assert.Equal(t, "", (&Snapshot{}).String("anything"))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0.0, Distance(51.5, -0.08, 51.5, -0.08))
	assert.InDelta(t, 0.005, Distance(51.5, -0.08, 51.505, -0.08), 1e-9)
	assert.Greater(t, Distance(51.5, -0.08, 51.6, -0.08), NearbyThreshold)
}
