package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/catalog"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/validator"
)

const defaultIdentifierRetries = 5

type Options struct {
	BookingIDPrefix   string
	IdentifierRetries int
	Location          *time.Location
	Now               func() time.Time
}

type Service struct {
	store    Store
	catalog  Catalog
	notifier Notifier
	calendar *Calendar
	ids      *IdentifierGenerator
	retries  int
	loc      *time.Location
	now      func() time.Time
}

func NewService(store Store, cat Catalog, notifier Notifier, opts Options) *Service {
	if opts.IdentifierRetries <= 0 {
		opts.IdentifierRetries = defaultIdentifierRetries
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BookingIDPrefix == "" {
		opts.BookingIDPrefix = "EF"
	}
	return &Service{
		store:    store,
		catalog:  cat,
		notifier: notifier,
		calendar: NewCalendar(store),
		ids:      NewIdentifierGenerator(opts.BookingIDPrefix, opts.Location),
		retries:  opts.IdentifierRetries,
		loc:      opts.Location,
		now:      opts.Now,
	}
}

// CreateBooking validates, prices and atomically persists a new confirmed
// booking. A lost race for the slot returns ErrConflict.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}
	slot, err := domain.NewSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	screen, pkg, err := s.resolveSubject(ctx, req.ScreenID, req.LocationID, req.EventPackageID)
	if err != nil {
		return nil, err
	}
	if err := checkGuestCount(req.GuestCount, screen, pkg); err != nil {
		return nil, err
	}

	ok, err := s.IsAvailable(ctx, screen.ID, req.Date, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	price, err := s.price(PricingInput{
		Screen:     *screen,
		PriceType:  req.PriceType,
		Package:    pkg,
		Slot:       slot,
		Services:   req.Services,
		Additional: req.AdditionalCharges,
		Discount:   req.Discount,
	})
	if err != nil {
		return nil, err
	}
	if req.AdvanceAmount > price.Total {
		return nil, invalid("advance amount %.2f exceeds total %.2f", req.AdvanceAmount, price.Total)
	}

	method := req.PaymentMethod
	if method == "" {
		method = "cash"
	}

	b := &domain.Booking{
		ScreenID:    screen.ID,
		LocationID:  req.LocationID,
		BookingDate: req.Date,
		Slot:        slot,
		Customer: domain.Customer{
			Name:     strings.TrimSpace(req.CustomerName),
			Email:    strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
			Phone:    validator.NormalizePhone(req.CustomerPhone),
			AltPhone: validator.NormalizePhone(req.AltPhone),
		},
		GuestCount:        req.GuestCount,
		EventPackageID:    req.EventPackageID,
		Services:          onlySelected(req.Services),
		ServiceNote:       strings.TrimSpace(req.ServiceNote),
		AdditionalCharges: req.AdditionalCharges,
		Pricing:           price,
		Status:            domain.BookingConfirmed,
		Payment:           paymentFor(method, req.AdvanceAmount, price.Total),
		CreatedBy:         req.CreatedBy,
	}

	if err := s.insertWithRetry(ctx, b); err != nil {
		return nil, err
	}

	log.Printf("booking_created code=%s screen_id=%d date=%s slot=%s-%s total=%.2f",
		b.BookingCode, b.ScreenID, b.BookingDate, b.Slot.StartTime, b.Slot.EndTime, b.Pricing.Total)
	s.notify(ctx, domain.BookingEventCreated, b, nil)
	return b, nil
}

// insertWithRetry recomputes the sequence after each code collision.
// Slot conflicts and storage faults are returned immediately.
func (s *Service) insertWithRetry(ctx context.Context, b *domain.Booking) error {
	for attempt := 1; attempt <= s.retries; attempt++ {
		dayPrefix := s.ids.DayPrefix(s.now())
		err := s.store.InsertUnique(ctx, b, dayPrefix, func(last string) (string, error) {
			return s.ids.Next(dayPrefix, last)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, errCodeTaken) {
			return err
		}
		log.Printf("booking_code_collision prefix=%s attempt=%d/%d", dayPrefix, attempt, s.retries)
	}
	return ErrContention
}

// Quote prices a slot without reserving it.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*domain.PriceBreakdown, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidFields(errs)
	}
	slot, err := domain.NewSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	screen, err := s.catalog.GetScreen(ctx, req.ScreenID)
	if err != nil {
		return nil, lookupErr("screen", req.ScreenID, err)
	}
	pkg, err := s.lookupPackage(ctx, req.EventPackageID)
	if err != nil {
		return nil, err
	}
	price, err := s.price(PricingInput{
		Screen:     *screen,
		PriceType:  req.PriceType,
		Package:    pkg,
		Slot:       slot,
		Services:   req.Services,
		Additional: req.AdditionalCharges,
	})
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *Service) GetBooking(ctx context.Context, code string) (*domain.Booking, error) {
	return s.store.GetByCode(ctx, code)
}

// price wraps ComputePrice and logs internal pricing defects with their inputs.
func (s *Service) price(in PricingInput) (domain.PriceBreakdown, error) {
	out, err := ComputePrice(in)
	if err != nil && errors.Is(err, ErrPricing) {
		pkgID := int64(0)
		if in.Package != nil {
			pkgID = in.Package.ID
		}
		log.Printf("pricing_error screen_id=%d rate=%v combo=%v price_type=%s package_id=%d slot=%s-%s duration=%v services=%v additional=%+v discount=%v error=%q",
			in.Screen.ID, in.Screen.PricePerHour, in.Screen.ComboPrice, in.PriceType, pkgID,
			in.Slot.StartTime, in.Slot.EndTime, in.Slot.DurationHours, in.Services.Selected(),
			in.Additional, in.Discount, err.Error())
	}
	return out, err
}

func (s *Service) resolveSubject(ctx context.Context, screenID, locationID int64, packageID *int64) (*domain.Screen, *domain.EventPackage, error) {
	screen, err := s.catalog.GetScreen(ctx, screenID)
	if err != nil {
		return nil, nil, lookupErr("screen", screenID, err)
	}
	if !screen.IsActive {
		return nil, nil, invalid("screen %d is not active", screenID)
	}
	if screen.LocationID != locationID {
		return nil, nil, invalid("screen %d does not belong to location %d", screenID, locationID)
	}
	loc, err := s.catalog.GetLocation(ctx, locationID)
	if err != nil {
		return nil, nil, lookupErr("location", locationID, err)
	}
	if !loc.IsActive {
		return nil, nil, invalid("location %d is not active", locationID)
	}
	pkg, err := s.lookupPackage(ctx, packageID)
	if err != nil {
		return nil, nil, err
	}
	return screen, pkg, nil
}

func (s *Service) lookupPackage(ctx context.Context, id *int64) (*domain.EventPackage, error) {
	if id == nil {
		return nil, nil
	}
	pkg, err := s.catalog.GetEventPackage(ctx, *id)
	if err != nil {
		return nil, lookupErr("event package", *id, err)
	}
	if !pkg.IsActive {
		return nil, invalid("event package %d is not active", *id)
	}
	return pkg, nil
}

func (s *Service) notify(ctx context.Context, kind domain.BookingEventKind, b *domain.Booking, changed []string) {
	if s.notifier == nil {
		return
	}
	snap := domain.BookingSnapshot{
		Kind:          kind,
		Booking:       *b,
		ChangedFields: changed,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, snap); err != nil {
		log.Printf("notify_failed kind=%s code=%s error=%q", kind, b.BookingCode, err.Error())
	}
}

func lookupErr(what string, id int64, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return invalid("%s %d does not exist", what, id)
	}
	return fmt.Errorf("lookup %s %d: %w", what, id, err)
}

// checkGuestCount bounds the party by min(screen capacity, package capacity).
func checkGuestCount(n int, screen *domain.Screen, pkg *domain.EventPackage) error {
	limit := screen.Capacity
	if pkg != nil && pkg.MaxCapacity > 0 && pkg.MaxCapacity < limit {
		limit = pkg.MaxCapacity
	}
	if n < 1 || n > limit {
		return invalid("guest count %d must be between 1 and %d", n, limit)
	}
	return nil
}

func paymentFor(method string, paid, total float64) domain.Payment {
	remaining := round2(total - paid)
	if remaining < 0 {
		remaining = 0
	}
	status := domain.PaymentPending
	if remaining == 0 {
		status = domain.PaymentCompleted
	}
	return domain.Payment{
		Method:          method,
		AmountPaid:      round2(paid),
		AmountRemaining: remaining,
		Status:          status,
	}
}

func onlySelected(f domain.ServiceFlags) domain.ServiceFlags {
	out := domain.ServiceFlags{}
	for _, name := range f.Selected() {
		out[name] = true
	}
	return out
}
