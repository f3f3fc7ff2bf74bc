package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

// Service records booking events in the outbox.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Notify stores the snapshot for asynchronous delivery by the Relay.
func (s *Service) Notify(ctx context.Context, snapshot domain.BookingSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", snapshot.Kind, err)
	}
	e := &OutboxEvent{
		ID:          uuid.NewString(),
		Kind:        string(snapshot.Kind),
		BookingCode: snapshot.Booking.BookingCode,
		LocationID:  snapshot.Booking.LocationID,
		Payload:     string(payload),
		Status:      StatusPending,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return fmt.Errorf("enqueue %s event for %s: %w", snapshot.Kind, snapshot.Booking.BookingCode, err)
	}
	return nil
}
