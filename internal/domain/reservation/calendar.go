package reservation

import (
	"context"
	"fmt"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

// Calendar reads the slots already taken on a screen and day. Only
// confirmed bookings occupy a slot.
type Calendar struct {
	store Store
}

func NewCalendar(store Store) *Calendar {
	return &Calendar{store: store}
}

// ListConfirmedSlots returns the occupied slots ordered by start time.
func (c *Calendar) ListConfirmedSlots(ctx context.Context, screenID int64, date string) ([]domain.BookedSlot, error) {
	rows, err := c.store.QueryByScreenAndDate(ctx, screenID, date, []domain.BookingStatus{domain.BookingConfirmed})
	if err != nil {
		return nil, fmt.Errorf("list confirmed slots screen=%d date=%s: %w", screenID, date, err)
	}
	out := make([]domain.BookedSlot, 0, len(rows))
	for _, b := range rows {
		if b.Status != domain.BookingConfirmed {
			continue
		}
		out = append(out, domain.BookedSlot{
			BookingID: b.ID,
			StartTime: b.Slot.StartTime,
			EndTime:   b.Slot.EndTime,
		})
	}
	return out, nil
}
