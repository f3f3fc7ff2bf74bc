package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted || s == BookingNoShow
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundDeclined  RefundStatus = "declined"
)

type PriceType string

const (
	PriceHourly PriceType = "hourly"
	PriceCombo  PriceType = "combo"
)

type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	AltPhone string `json:"alt_phone,omitempty"`
}

// ServiceFlags holds the selected add-on services keyed by catalog name.
type ServiceFlags map[string]bool

// Selected returns the names of the enabled flags.
func (f ServiceFlags) Selected() []string {
	out := make([]string, 0, len(f))
	for name, on := range f {
		if on {
			out = append(out, name)
		}
	}
	return out
}

// Charge is a named extra amount outside the fixed add-on catalog.
type Charge struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type ServiceLine struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PriceBreakdown is the pricing snapshot stored on a booking.
// It is only replaced by an explicit re-price on edit.
type PriceBreakdown struct {
	PriceType        PriceType     `json:"price_type"`
	DurationHours    float64       `json:"duration_hours"`
	ResourceAmount   float64       `json:"resource_amount"`
	EventAmount      float64       `json:"event_amount"`
	ServiceAmount    float64       `json:"service_amount"`
	ServiceLines     []ServiceLine `json:"service_lines,omitempty"`
	AdditionalAmount float64       `json:"additional_amount"`
	Discount         float64       `json:"discount"`
	Total            float64       `json:"total"`
}

type Cancellation struct {
	Reason       string       `json:"reason"`
	CancelledAt  time.Time    `json:"cancelled_at"`
	CancelledBy  int64        `json:"cancelled_by"`
	RefundAmount float64      `json:"refund_amount"`
	RefundStatus RefundStatus `json:"refund_status"`
}

type Payment struct {
	Method          string        `json:"method"`
	AmountPaid      float64       `json:"amount_paid"`
	AmountRemaining float64       `json:"amount_remaining"`
	Status          PaymentStatus `json:"status"`
}

type Booking struct {
	ID          int64  `json:"-"`
	BookingCode string `json:"booking_id"`
	ScreenID    int64  `json:"screen_id"`
	LocationID  int64  `json:"location_id"`
	BookingDate string `json:"date"`
	Slot        Slot   `json:"slot"`

	Customer   Customer `json:"customer"`
	GuestCount int      `json:"guest_count"`

	EventPackageID    *int64       `json:"event_package_id,omitempty"`
	Services          ServiceFlags `json:"services,omitempty"`
	ServiceNote       string       `json:"service_note,omitempty"`
	AdditionalCharges []Charge     `json:"additional_charges,omitempty"`

	Pricing      PriceBreakdown `json:"pricing"`
	Status       BookingStatus  `json:"status"`
	Cancellation *Cancellation  `json:"cancellation,omitempty"`
	Payment      Payment        `json:"payment"`

	CreatedBy int64     `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingEventKind string

const (
	BookingEventCreated   BookingEventKind = "created"
	BookingEventCancelled BookingEventKind = "cancelled"
	BookingEventUpdated   BookingEventKind = "updated"
)

// BookingSnapshot is the payload handed to the notification sink.
type BookingSnapshot struct {
	Kind          BookingEventKind `json:"kind"`
	Booking       Booking          `json:"booking"`
	ChangedFields []string         `json:"changed_fields,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
