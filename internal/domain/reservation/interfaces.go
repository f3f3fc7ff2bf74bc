package reservation

import (
	"context"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

// Catalog looks up the read-only records the engine prices and validates against.
type Catalog interface {
	GetScreen(ctx context.Context, id int64) (*domain.Screen, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetEventPackage(ctx context.Context, id int64) (*domain.EventPackage, error)
}

// NextCodeFunc returns the code following last ("" when the day has none).
type NextCodeFunc func(last string) (string, error)

// Store is the persistent booking store. The partial unique index on
// (screen_id, booking_date, start_time, end_time) for confirmed rows is
// the authority on double booking; every write that can occupy a slot
// must surface its violation as ErrConflict.
type Store interface {
	QueryByScreenAndDate(ctx context.Context, screenID int64, date string, statuses []domain.BookingStatus) ([]domain.Booking, error)
	// InsertUnique mints the booking code with next inside the write
	// transaction. A code collision returns errCodeTaken.
	InsertUnique(ctx context.Context, b *domain.Booking, dayPrefix string, next NextCodeFunc) error
	// UpdateUnique rewrites the mutable fields of a confirmed booking,
	// ignoring the row's own slot when checking for conflicts.
	UpdateUnique(ctx context.Context, b *domain.Booking) error
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	// TransitionStatus moves a confirmed booking to `to`. It reports false
	// when the row is no longer confirmed.
	TransitionStatus(ctx context.Context, id int64, to domain.BookingStatus, c *domain.Cancellation) (bool, error)
	UpdatePayment(ctx context.Context, id int64, expectedPaid float64, p domain.Payment) (bool, error)
	UpdateRefundStatus(ctx context.Context, id int64, to domain.RefundStatus) (bool, error)
}

// Notifier receives booking events. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, snapshot domain.BookingSnapshot) error
}
