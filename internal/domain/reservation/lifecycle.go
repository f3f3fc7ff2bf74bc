package reservation

import (
	"context"
	"log"
	"reflect"
	"strings"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/validator"
)

// CancelBooking frees the slot of a confirmed booking and records who
// cancelled it and what will be refunded.
func (s *Service) CancelBooking(ctx context.Context, code string, req CancelRequest, actorID int64) (*domain.Booking, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}

	b, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}
	refund := round2(req.RefundAmount)
	if refund > b.Payment.AmountPaid {
		return nil, invalid("refund amount %.2f exceeds amount paid %.2f", refund, b.Payment.AmountPaid)
	}

	c := &domain.Cancellation{
		Reason:       req.Reason,
		CancelledAt:  s.now().UTC(),
		CancelledBy:  actorID,
		RefundAmount: refund,
		RefundStatus: domain.RefundDeclined,
	}
	if refund > 0 {
		c.RefundStatus = domain.RefundPending
	}

	ok, err := s.store.TransitionStatus(ctx, b.ID, domain.BookingCancelled, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatusTransition
	}
	b.Status = domain.BookingCancelled
	b.Cancellation = c

	log.Printf("booking_cancelled code=%s actor=%d refund=%.2f", b.BookingCode, actorID, refund)
	s.notify(ctx, domain.BookingEventCancelled, b, nil)
	return b, nil
}

// CompleteBooking closes a booking whose slot has ended.
func (s *Service) CompleteBooking(ctx context.Context, code string, actorID int64) (*domain.Booking, error) {
	return s.closeAfterSlot(ctx, code, domain.BookingCompleted, actorID)
}

// MarkNoShow closes a booking whose customer never arrived. No refund.
func (s *Service) MarkNoShow(ctx context.Context, code string, actorID int64) (*domain.Booking, error) {
	return s.closeAfterSlot(ctx, code, domain.BookingNoShow, actorID)
}

func (s *Service) closeAfterSlot(ctx context.Context, code string, to domain.BookingStatus, actorID int64) (*domain.Booking, error) {
	b, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}
	end, err := domain.SlotEnd(b.BookingDate, b.Slot, s.loc)
	if err != nil {
		return nil, err
	}
	if s.now().Before(end) {
		return nil, invalid("booking %s cannot be marked %s before its slot ends", b.BookingCode, to)
	}

	ok, err := s.store.TransitionStatus(ctx, b.ID, to, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatusTransition
	}
	b.Status = to
	log.Printf("booking_closed code=%s status=%s actor=%d", b.BookingCode, to, actorID)
	return b, nil
}

// EditBooking applies a partial change to a confirmed booking. Any change
// re-checks the slot (ignoring the booking itself) and re-prices. On
// ErrConflict the stored booking is left untouched.
func (s *Service) EditBooking(ctx context.Context, code string, req EditBookingRequest, actorID int64) (*domain.Booking, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}

	current, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}

	next := *current
	changed := applyEdit(&next, req)
	if len(changed) == 0 {
		return current, nil
	}

	slot, err := domain.NewSlot(next.Slot.StartTime, next.Slot.EndTime)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	next.Slot = slot

	screen, pkg, err := s.resolveSubject(ctx, next.ScreenID, next.LocationID, next.EventPackageID)
	if err != nil {
		return nil, err
	}
	if err := checkGuestCount(next.GuestCount, screen, pkg); err != nil {
		return nil, err
	}

	if next.BookingDate != current.BookingDate || !next.Slot.SameTimes(current.Slot) {
		ok, err := s.isAvailableExcluding(ctx, next.ScreenID, next.BookingDate, next.Slot, current.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrConflict
		}
	}

	price, err := s.price(PricingInput{
		Screen:     *screen,
		PriceType:  next.Pricing.PriceType,
		Package:    pkg,
		Slot:       next.Slot,
		Services:   next.Services,
		Additional: next.AdditionalCharges,
		Discount:   next.Pricing.Discount,
	})
	if err != nil {
		return nil, err
	}
	// Money already taken is never written off by an edit.
	if price.Total < current.Payment.AmountPaid {
		return nil, invalid("new total %.2f is below the %.2f already paid, cancel with a refund instead",
			price.Total, current.Payment.AmountPaid)
	}
	if price.Total != current.Pricing.Total {
		changed = append(changed, "total")
	}
	next.Pricing = price
	next.Payment = paymentFor(current.Payment.Method, current.Payment.AmountPaid, price.Total)

	if err := s.store.UpdateUnique(ctx, &next); err != nil {
		return nil, err
	}

	log.Printf("booking_updated code=%s actor=%d fields=%s", next.BookingCode, actorID, strings.Join(changed, ","))
	s.notify(ctx, domain.BookingEventUpdated, &next, changed)
	return &next, nil
}

// applyEdit merges req into b and returns the names of the fields whose
// value actually changed.
func applyEdit(b *domain.Booking, req EditBookingRequest) []string {
	var changed []string
	mark := func(name string, differs bool) {
		if differs {
			changed = append(changed, name)
		}
	}

	if req.Date != nil {
		mark("date", *req.Date != b.BookingDate)
		b.BookingDate = *req.Date
	}
	if req.StartTime != nil {
		mark("start_time", *req.StartTime != b.Slot.StartTime)
		b.Slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		mark("end_time", *req.EndTime != b.Slot.EndTime)
		b.Slot.EndTime = *req.EndTime
	}
	if req.GuestCount != nil {
		mark("guest_count", *req.GuestCount != b.GuestCount)
		b.GuestCount = *req.GuestCount
	}
	switch {
	case req.ClearEventPackage:
		mark("event_package_id", b.EventPackageID != nil)
		b.EventPackageID = nil
	case req.EventPackageID != nil:
		mark("event_package_id", b.EventPackageID == nil || *b.EventPackageID != *req.EventPackageID)
		id := *req.EventPackageID
		b.EventPackageID = &id
	}
	if req.PriceType != nil {
		mark("price_type", *req.PriceType != b.Pricing.PriceType)
		b.Pricing.PriceType = *req.PriceType
	}
	if req.Services != nil {
		services := onlySelected(req.Services)
		mark("services", !sameServices(services, b.Services))
		b.Services = services
	}
	if req.ServiceNote != nil {
		note := strings.TrimSpace(*req.ServiceNote)
		mark("service_note", note != b.ServiceNote)
		b.ServiceNote = note
	}
	if req.AdditionalCharges != nil {
		charges := *req.AdditionalCharges
		mark("additional_charges", !reflect.DeepEqual(normCharges(charges), normCharges(b.AdditionalCharges)))
		b.AdditionalCharges = charges
	}
	if req.Discount != nil {
		d := round2(*req.Discount)
		mark("discount", d != b.Pricing.Discount)
		b.Pricing.Discount = d
	}
	return changed
}

func sameServices(a, b domain.ServiceFlags) bool {
	if len(a.Selected()) != len(b.Selected()) {
		return false
	}
	for _, name := range a.Selected() {
		if !b[name] {
			return false
		}
	}
	return true
}

func normCharges(c []domain.Charge) []domain.Charge {
	if len(c) == 0 {
		return nil
	}
	return c
}

// RecordPayment adds a payment against the outstanding balance.
func (s *Service) RecordPayment(ctx context.Context, code string, req PaymentRequest, actorID int64) (*domain.Booking, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}
	b, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}
	amount := round2(req.Amount)
	if amount > b.Payment.AmountRemaining {
		return nil, invalid("payment %.2f exceeds remaining balance %.2f", amount, b.Payment.AmountRemaining)
	}

	method := req.Method
	if method == "" {
		method = b.Payment.Method
	}
	p := paymentFor(method, b.Payment.AmountPaid+amount, b.Pricing.Total)

	ok, err := s.store.UpdatePayment(ctx, b.ID, b.Payment.AmountPaid, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrContention
	}
	b.Payment = p
	log.Printf("booking_payment code=%s actor=%d amount=%.2f remaining=%.2f", b.BookingCode, actorID, amount, p.AmountRemaining)
	return b, nil
}

// UpdateRefundStatus settles the pending refund of a cancelled booking.
func (s *Service) UpdateRefundStatus(ctx context.Context, code string, req RefundStatusRequest, actorID int64) (*domain.Booking, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}
	b, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingCancelled || b.Cancellation == nil || b.Cancellation.RefundStatus != domain.RefundPending {
		return nil, ErrInvalidStatusTransition
	}

	ok, err := s.store.UpdateRefundStatus(ctx, b.ID, req.Status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatusTransition
	}
	b.Cancellation.RefundStatus = req.Status
	log.Printf("booking_refund code=%s actor=%d status=%s", b.BookingCode, actorID, req.Status)
	return b, nil
}
