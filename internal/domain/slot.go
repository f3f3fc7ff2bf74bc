package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// EndOfDay closes a slot at midnight. It is only valid as an end time.
	EndOfDay = "24:00"
)

// Slot is a start/end pair of wall-clock times ("HH:MM") on a booking date.
// Slots never cross midnight; a slot ending at midnight ends at "24:00".
type Slot struct {
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
}

// NewSlot parses both ends and fills DurationHours. End must be after start.
func NewSlot(start, end string) (Slot, error) {
	s, err := time.Parse(TimeLayout, start)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid start_time %q", start)
	}
	startMin := s.Hour()*60 + s.Minute()

	endMin := 24 * 60
	if end != EndOfDay {
		e, err := time.Parse(TimeLayout, end)
		if err != nil {
			return Slot{}, fmt.Errorf("invalid end_time %q", end)
		}
		endMin = e.Hour()*60 + e.Minute()
	}
	if endMin <= startMin {
		return Slot{}, fmt.Errorf("end_time %s must be after start_time %s", end, start)
	}
	return Slot{
		StartTime:     clock(startMin),
		EndTime:       clock(endMin),
		DurationHours: float64(endMin-startMin) / 60,
	}, nil
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps uses half-open intervals: touching boundaries do not overlap.
// Zero-padded HH:MM strings compare in time order.
func (s Slot) Overlaps(other Slot) bool {
	return s.StartTime < other.EndTime && s.EndTime > other.StartTime
}

// SameTimes reports whether both slots cover the exact same interval.
func (s Slot) SameTimes(other Slot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// BookedSlot is a slot occupied by a confirmed booking.
type BookedSlot struct {
	BookingID int64  `json:"-"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (b BookedSlot) Slot() Slot {
	return Slot{StartTime: b.StartTime, EndTime: b.EndTime}
}

// ParseDate validates a zone-naive calendar day.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return d, nil
}

// SlotEnd returns the instant the slot ends on date, interpreted in loc.
func SlotEnd(date string, slot Slot, loc *time.Location) (time.Time, error) {
	if slot.EndTime == EndOfDay {
		d, err := time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return time.Time{}, err
		}
		return d.AddDate(0, 0, 1), nil
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+slot.EndTime, loc)
}
