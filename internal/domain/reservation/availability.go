package reservation

import (
	"context"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/validator"
)

// firstConflict scans booked for the first slot overlapping candidate,
// skipping the booking with id exclude.
func firstConflict(booked []domain.BookedSlot, candidate domain.Slot, exclude int64) (domain.BookedSlot, bool) {
	for _, b := range booked {
		if exclude != 0 && b.BookingID == exclude {
			continue
		}
		if candidate.Overlaps(b.Slot()) {
			return b, true
		}
	}
	return domain.BookedSlot{}, false
}

// IsAvailable is advisory: it can be stale by the time a write lands.
// Only the constrained write is authoritative.
func (s *Service) IsAvailable(ctx context.Context, screenID int64, date string, candidate domain.Slot) (bool, error) {
	return s.isAvailableExcluding(ctx, screenID, date, candidate, 0)
}

func (s *Service) isAvailableExcluding(ctx context.Context, screenID int64, date string, candidate domain.Slot, exclude int64) (bool, error) {
	booked, err := s.calendar.ListConfirmedSlots(ctx, screenID, date)
	if err != nil {
		return false, err
	}
	_, conflict := firstConflict(booked, candidate, exclude)
	return !conflict, nil
}

// CheckAvailability returns the day's booked slots and, when a candidate
// slot is given, whether it is free.
func (s *Service) CheckAvailability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error) {
	if errs := validator.Validate(q); errs != nil {
		return nil, invalidFields(errs)
	}
	if (q.StartTime == "") != (q.EndTime == "") {
		return nil, invalid("start_time and end_time must be given together")
	}
	screen, err := s.catalog.GetScreen(ctx, q.ScreenID)
	if err != nil {
		return nil, lookupErr("screen", q.ScreenID, err)
	}
	if !screen.IsActive {
		return nil, invalid("screen %d is not active", q.ScreenID)
	}

	booked, err := s.calendar.ListConfirmedSlots(ctx, q.ScreenID, q.Date)
	if err != nil {
		return nil, err
	}
	res := &AvailabilityResult{ScreenID: q.ScreenID, Date: q.Date, BookedSlots: booked}

	if q.StartTime != "" {
		candidate, err := domain.NewSlot(q.StartTime, q.EndTime)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
		_, conflict := firstConflict(booked, candidate, 0)
		free := !conflict
		res.Available = &free
	}
	return res, nil
}
