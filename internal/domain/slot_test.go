package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlot(t *testing.T) {
	s, err := NewSlot("14:00", "16:30")
	require.NoError(t, err)
	assert.Equal(t, 2.5, s.DurationHours)

	s, err = NewSlot("22:00", EndOfDay)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.DurationHours)
	assert.Equal(t, "24:00", s.EndTime)
	assert.True(t, s.Overlaps(Slot{StartTime: "23:00", EndTime: "23:30"}))
	assert.False(t, s.Overlaps(Slot{StartTime: "20:00", EndTime: "22:00"}))

	for _, tc := range []struct{ start, end string }{
		{EndOfDay, EndOfDay},
		{"24:00", "24:30"},
		{"16:00", "14:00"},
		{"14:00", "14:00"},
		{"25:00", "26:00"},
		{"2pm", "16:00"},
	} {
		_, err := NewSlot(tc.start, tc.end)
		assert.Error(t, err, "%s-%s", tc.start, tc.end)
	}
}

func TestSlotOverlaps(t *testing.T) {
	booked := Slot{StartTime: "14:00", EndTime: "16:00"}

	tests := []struct {
		name      string
		candidate Slot
		want      bool
	}{
		{"same", Slot{StartTime: "14:00", EndTime: "16:00"}, true},
		{"inside", Slot{StartTime: "14:30", EndTime: "15:00"}, true},
		{"covers", Slot{StartTime: "13:00", EndTime: "17:00"}, true},
		{"tail", Slot{StartTime: "15:00", EndTime: "17:00"}, true},
		{"touching end", Slot{StartTime: "16:00", EndTime: "18:00"}, false},
		{"touching start", Slot{StartTime: "12:00", EndTime: "14:00"}, false},
		{"before", Slot{StartTime: "09:00", EndTime: "10:00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.Overlaps(booked))
			assert.Equal(t, tt.want, booked.Overlaps(tt.candidate))
		})
	}
}

func TestSlotEnd(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	end, err := SlotEnd("2025-06-01", Slot{StartTime: "14:00", EndTime: "16:00"}, ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), end.UTC())

	end, err = SlotEnd("2025-06-01", Slot{StartTime: "22:00", EndTime: EndOfDay}, ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC), end.UTC())
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2025-06-01")
	assert.NoError(t, err)
	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)
}

func TestServiceFlagsSelected(t *testing.T) {
	f := ServiceFlags{"cake": true, "fog_entry": false, "decorations": true}
	assert.ElementsMatch(t, []string{"cake", "decorations"}, f.Selected())
}
