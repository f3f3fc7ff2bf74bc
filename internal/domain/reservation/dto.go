package reservation

import "github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"

type CreateBookingRequest struct {
	ScreenID   int64  `json:"screen_id" validate:"required,gt=0"`
	LocationID int64  `json:"location_id" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,ymd"`
	StartTime  string `json:"start_time" validate:"required,hhmm"`
	EndTime    string `json:"end_time" validate:"required,hhmm"`

	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"required,mobile"`
	AltPhone      string `json:"alt_phone" validate:"omitempty,mobile"`
	GuestCount    int    `json:"guest_count" validate:"required,gt=0"`

	EventPackageID    *int64              `json:"event_package_id" validate:"omitempty,gt=0"`
	PriceType         domain.PriceType    `json:"price_type" validate:"required,oneof=hourly combo"`
	Services          domain.ServiceFlags `json:"services"`
	ServiceNote       string              `json:"service_note" validate:"max=500"`
	AdditionalCharges []domain.Charge     `json:"additional_charges"`

	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash upi card online"`
	AdvanceAmount float64 `json:"advance_amount" validate:"gte=0"`

	// Set by staff routes only.
	Discount  float64 `json:"discount" validate:"gte=0"`
	CreatedBy int64   `json:"-"`
}

// EditBookingRequest carries only the fields to change; nil means unchanged.
type EditBookingRequest struct {
	Date              *string             `json:"date" validate:"omitempty,ymd"`
	StartTime         *string             `json:"start_time" validate:"omitempty,hhmm"`
	EndTime           *string             `json:"end_time" validate:"omitempty,hhmm"`
	GuestCount        *int                `json:"guest_count" validate:"omitempty,gt=0"`
	EventPackageID    *int64              `json:"event_package_id" validate:"omitempty,gt=0"`
	ClearEventPackage bool                `json:"clear_event_package"`
	PriceType         *domain.PriceType   `json:"price_type" validate:"omitempty,oneof=hourly combo"`
	Services          domain.ServiceFlags `json:"services"`
	ServiceNote       *string             `json:"service_note" validate:"omitempty,max=500"`
	AdditionalCharges *[]domain.Charge    `json:"additional_charges"`
	Discount          *float64            `json:"discount" validate:"omitempty,gte=0"`
}

type CancelRequest struct {
	Reason       string  `json:"reason" validate:"required"`
	RefundAmount float64 `json:"refund_amount" validate:"gte=0"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Method string  `json:"method" validate:"omitempty,oneof=cash upi card online"`
}

type RefundStatusRequest struct {
	Status domain.RefundStatus `json:"status" validate:"required,oneof=processed declined"`
}

type AvailabilityQuery struct {
	ScreenID  int64  `form:"-" validate:"required,gt=0"`
	Date      string `form:"date" validate:"required,ymd"`
	StartTime string `form:"start_time" validate:"omitempty,hhmm"`
	EndTime   string `form:"end_time" validate:"omitempty,hhmm"`
}

type AvailabilityResult struct {
	ScreenID    int64               `json:"screen_id"`
	Date        string              `json:"date"`
	Available   *bool               `json:"available,omitempty"`
	BookedSlots []domain.BookedSlot `json:"booked_slots"`
}

type QuoteRequest struct {
	ScreenID          int64               `json:"screen_id" validate:"required,gt=0"`
	StartTime         string              `json:"start_time" validate:"required,hhmm"`
	EndTime           string              `json:"end_time" validate:"required,hhmm"`
	EventPackageID    *int64              `json:"event_package_id" validate:"omitempty,gt=0"`
	PriceType         domain.PriceType    `json:"price_type" validate:"required,oneof=hourly combo"`
	Services          domain.ServiceFlags `json:"services"`
	AdditionalCharges []domain.Charge     `json:"additional_charges"`
}
