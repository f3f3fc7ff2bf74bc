package notification

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	StatusPending OutboxStatus = "pending"
	StatusSent    OutboxStatus = "sent"
	StatusFailed  OutboxStatus = "failed"
)

// OutboxEvent is a booking event waiting to be published. Rows are
// written by Notify and drained by the Relay.
type OutboxEvent struct {
	ID          string       `gorm:"column:id;primaryKey;size:36"`
	Kind        string       `gorm:"column:kind;size:16;not null"`
	BookingCode string       `gorm:"column:booking_code;size:32;index"`
	LocationID  int64        `gorm:"column:location_id"`
	Payload     string       `gorm:"column:payload;type:text;not null"`
	Status      OutboxStatus `gorm:"column:status;size:16;not null;index:idx_outbox_status_created,priority:1"`
	Attempts    int          `gorm:"column:attempts;not null"`
	LastError   string       `gorm:"column:last_error"`
	CreatedAt   time.Time    `gorm:"column:created_at;index:idx_outbox_status_created,priority:2"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
	SentAt      *time.Time   `gorm:"column:sent_at"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// Message is what sinks receive. Consumers dedupe by ID.
type Message struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	BookingCode string          `json:"booking_id"`
	LocationID  int64           `json:"location_id"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (e OutboxEvent) Message() Message {
	return Message{
		ID:          e.ID,
		Kind:        e.Kind,
		BookingCode: e.BookingCode,
		LocationID:  e.LocationID,
		Payload:     json.RawMessage(e.Payload),
		CreatedAt:   e.CreatedAt,
	}
}
