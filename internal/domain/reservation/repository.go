package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

const (
	slotIndexName = "idx_bookings_confirmed_slot"
	codeIndexName = "idx_bookings_code"
)

// Repository is the gorm-backed Store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type bookingModel struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	BookingCode string  `gorm:"column:booking_code;size:32;not null;uniqueIndex:idx_bookings_code"`
	ScreenID    int64   `gorm:"column:screen_id;not null;index:idx_bookings_screen_date,priority:1"`
	LocationID  int64   `gorm:"column:location_id;not null"`
	BookingDate string  `gorm:"column:booking_date;size:10;not null;index:idx_bookings_screen_date,priority:2"`
	StartTime   string  `gorm:"column:start_time;size:5;not null"`
	EndTime     string  `gorm:"column:end_time;size:5;not null"`
	Duration    float64 `gorm:"column:duration_hours"`

	CustomerName     string `gorm:"column:customer_name;not null"`
	CustomerEmail    string `gorm:"column:customer_email"`
	CustomerPhone    string `gorm:"column:customer_phone"`
	CustomerAltPhone string `gorm:"column:customer_alt_phone"`
	GuestCount       int    `gorm:"column:guest_count"`

	EventPackageID    *int64 `gorm:"column:event_package_id"`
	Services          string `gorm:"column:services;type:text"`
	ServiceNote       string `gorm:"column:service_note"`
	AdditionalCharges string `gorm:"column:additional_charges;type:text"`

	PriceType   string  `gorm:"column:price_type;size:16"`
	Pricing     string  `gorm:"column:pricing;type:text"`
	TotalAmount float64 `gorm:"column:total_amount"`

	Status string `gorm:"column:status;size:16;not null;index"`

	CancelReason *string    `gorm:"column:cancel_reason"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at"`
	CancelledBy  *int64     `gorm:"column:cancelled_by"`
	RefundAmount float64    `gorm:"column:refund_amount"`
	RefundStatus *string    `gorm:"column:refund_status;size:16"`

	PaymentMethod   string  `gorm:"column:payment_method;size:16"`
	AmountPaid      float64 `gorm:"column:amount_paid"`
	AmountRemaining float64 `gorm:"column:amount_remaining"`
	PaymentStatus   string  `gorm:"column:payment_status;size:16"`

	CreatedBy int64     `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// Migrate creates the bookings table and the partial unique index that
// makes a confirmed slot unique. The syntax is shared by postgres and sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&bookingModel{}); err != nil {
		return fmt.Errorf("migrate bookings: %w", err)
	}
	stmt := "CREATE UNIQUE INDEX IF NOT EXISTS " + slotIndexName +
		" ON bookings (screen_id, booking_date, start_time, end_time) WHERE status = 'confirmed'"
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", slotIndexName, err)
	}
	return nil
}

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:          m.ID,
		BookingCode: m.BookingCode,
		ScreenID:    m.ScreenID,
		LocationID:  m.LocationID,
		BookingDate: m.BookingDate,
		Slot: domain.Slot{
			StartTime:     m.StartTime,
			EndTime:       m.EndTime,
			DurationHours: m.Duration,
		},
		Customer: domain.Customer{
			Name:     m.CustomerName,
			Email:    m.CustomerEmail,
			Phone:    m.CustomerPhone,
			AltPhone: m.CustomerAltPhone,
		},
		GuestCount:     m.GuestCount,
		EventPackageID: m.EventPackageID,
		ServiceNote:    m.ServiceNote,
		Status:         domain.BookingStatus(m.Status),
		Payment: domain.Payment{
			Method:          m.PaymentMethod,
			AmountPaid:      m.AmountPaid,
			AmountRemaining: m.AmountRemaining,
			Status:          domain.PaymentStatus(m.PaymentStatus),
		},
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if err := unmarshalColumn(m.Services, &b.Services); err != nil {
		return nil, fmt.Errorf("booking %s services: %w", m.BookingCode, err)
	}
	if err := unmarshalColumn(m.AdditionalCharges, &b.AdditionalCharges); err != nil {
		return nil, fmt.Errorf("booking %s additional charges: %w", m.BookingCode, err)
	}
	if err := unmarshalColumn(m.Pricing, &b.Pricing); err != nil {
		return nil, fmt.Errorf("booking %s pricing: %w", m.BookingCode, err)
	}
	b.Pricing.PriceType = domain.PriceType(m.PriceType)
	b.Pricing.Total = m.TotalAmount

	if m.CancelledAt != nil {
		c := &domain.Cancellation{
			CancelledAt:  *m.CancelledAt,
			RefundAmount: m.RefundAmount,
		}
		if m.CancelReason != nil {
			c.Reason = *m.CancelReason
		}
		if m.CancelledBy != nil {
			c.CancelledBy = *m.CancelledBy
		}
		if m.RefundStatus != nil {
			c.RefundStatus = domain.RefundStatus(*m.RefundStatus)
		}
		b.Cancellation = c
	}
	return b, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	services, err := marshalColumn(b.Services)
	if err != nil {
		return bookingModel{}, err
	}
	charges, err := marshalColumn(b.AdditionalCharges)
	if err != nil {
		return bookingModel{}, err
	}
	pricing, err := marshalColumn(b.Pricing)
	if err != nil {
		return bookingModel{}, err
	}

	m := bookingModel{
		ID:                b.ID,
		BookingCode:       b.BookingCode,
		ScreenID:          b.ScreenID,
		LocationID:        b.LocationID,
		BookingDate:       b.BookingDate,
		StartTime:         b.Slot.StartTime,
		EndTime:           b.Slot.EndTime,
		Duration:          b.Slot.DurationHours,
		CustomerName:      b.Customer.Name,
		CustomerEmail:     b.Customer.Email,
		CustomerPhone:     b.Customer.Phone,
		CustomerAltPhone:  b.Customer.AltPhone,
		GuestCount:        b.GuestCount,
		EventPackageID:    b.EventPackageID,
		Services:          services,
		ServiceNote:       b.ServiceNote,
		AdditionalCharges: charges,
		PriceType:         string(b.Pricing.PriceType),
		Pricing:           pricing,
		TotalAmount:       b.Pricing.Total,
		Status:            string(b.Status),
		PaymentMethod:     b.Payment.Method,
		AmountPaid:        b.Payment.AmountPaid,
		AmountRemaining:   b.Payment.AmountRemaining,
		PaymentStatus:     string(b.Payment.Status),
		CreatedBy:         b.CreatedBy,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if c := b.Cancellation; c != nil {
		reason, by, status := c.Reason, c.CancelledBy, string(c.RefundStatus)
		at := c.CancelledAt
		m.CancelReason = &reason
		m.CancelledAt = &at
		m.CancelledBy = &by
		m.RefundAmount = c.RefundAmount
		m.RefundStatus = &status
	}
	return m, nil
}

func marshalColumn(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalColumn(raw string, v any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func (r *Repository) QueryByScreenAndDate(ctx context.Context, screenID int64, date string, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("screen_id = ? AND booking_date = ?", screenID, date)
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		q = q.Where("status IN ?", names)
	}

	var rows []bookingModel
	if err := q.Order("start_time").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("booking_code = ?", code).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBooking(m)
}

// InsertUnique mints the code, re-checks the slot and inserts, all in one
// transaction. The caller's booking is only filled in on success.
func (r *Repository) InsertUnique(ctx context.Context, b *domain.Booking, dayPrefix string, next NextCodeFunc) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockScreen(tx, b.ScreenID); err != nil {
			return err
		}

		var codes []string
		if err := tx.Model(&bookingModel{}).
			Where("booking_code LIKE ?", dayPrefix+"%").
			Order("booking_code DESC").
			Limit(1).
			Pluck("booking_code", &codes).Error; err != nil {
			return err
		}
		last := ""
		if len(codes) > 0 {
			last = codes[0]
		}
		code, err := next(last)
		if err != nil {
			return err
		}
		m.BookingCode = code

		taken, err := slotTaken(tx, b.ScreenID, b.BookingDate, b.Slot, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		return tx.Create(&m).Error
	})
	if err != nil {
		return classifyWriteErr(err)
	}

	b.ID = m.ID
	b.BookingCode = m.BookingCode
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

// UpdateUnique rewrites the editable columns of a confirmed booking.
func (r *Repository) UpdateUnique(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockScreen(tx, b.ScreenID); err != nil {
			return err
		}
		taken, err := slotTaken(tx, b.ScreenID, b.BookingDate, b.Slot, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", b.ID, string(domain.BookingConfirmed)).
			Updates(map[string]any{
				"booking_date":       m.BookingDate,
				"start_time":         m.StartTime,
				"end_time":           m.EndTime,
				"duration_hours":     m.Duration,
				"guest_count":        m.GuestCount,
				"event_package_id":   m.EventPackageID,
				"services":           m.Services,
				"service_note":       m.ServiceNote,
				"additional_charges": m.AdditionalCharges,
				"price_type":         m.PriceType,
				"pricing":            m.Pricing,
				"total_amount":       m.TotalAmount,
				"amount_remaining":   m.AmountRemaining,
				"payment_status":     m.PaymentStatus,
				"updated_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidStatusTransition
		}
		return nil
	})
	if err != nil {
		return classifyWriteErr(err)
	}
	b.UpdatedAt = now
	return nil
}

// TransitionStatus is a compare-and-set on status = 'confirmed'.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, to domain.BookingStatus, c *domain.Cancellation) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if c != nil {
		updates["cancel_reason"] = c.Reason
		updates["cancelled_at"] = c.CancelledAt
		updates["cancelled_by"] = c.CancelledBy
		updates["refund_amount"] = c.RefundAmount
		updates["refund_status"] = string(c.RefundStatus)
	}
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingConfirmed)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdatePayment only applies when amount_paid still equals expectedPaid.
func (r *Repository) UpdatePayment(ctx context.Context, id int64, expectedPaid float64, p domain.Payment) (bool, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND amount_paid = ?", id, expectedPaid).
		Where("status IN ?", []string{string(domain.BookingConfirmed), string(domain.BookingCompleted)}).
		Updates(map[string]any{
			"payment_method":   p.Method,
			"amount_paid":      p.AmountPaid,
			"amount_remaining": p.AmountRemaining,
			"payment_status":   string(p.Status),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) UpdateRefundStatus(ctx context.Context, id int64, to domain.RefundStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND refund_status = ?", id, string(domain.BookingCancelled), string(domain.RefundPending)).
		Updates(map[string]any{
			"refund_status": string(to),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// lockScreen serialises writers of one screen on postgres. sqlite already
// runs a single writer.
func lockScreen(tx *gorm.DB, screenID int64) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var s domain.Screen
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", screenID).
		First(&s).Error
}

func slotTaken(tx *gorm.DB, screenID int64, date string, slot domain.Slot, exclude int64) (bool, error) {
	q := tx.Model(&bookingModel{}).
		Where("screen_id = ? AND booking_date = ? AND status = ?", screenID, date, string(domain.BookingConfirmed)).
		Where("start_time < ? AND end_time > ?", slot.EndTime, slot.StartTime)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// classifyWriteErr maps unique violations to the engine's error kinds.
func classifyWriteErr(err error) error {
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrContention) || errors.Is(err, ErrInvalidStatusTransition) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case codeIndexName:
			return errCodeTaken
		case slotIndexName:
			return ErrConflict
		}
		return fmt.Errorf("unique violation on %s: %w", pgErr.ConstraintName, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "booking_code") {
			return errCodeTaken
		}
		return ErrConflict
	}
	return err
}
