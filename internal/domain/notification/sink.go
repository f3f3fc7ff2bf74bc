package notification

import (
	"context"
	"errors"
	"log"

	"github.com/tidwall/gjson"
)

// Sink publishes one message to a downstream consumer.
type Sink interface {
	Publish(ctx context.Context, m Message) error
}

// LogSink writes a one-line summary of each event.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, m Message) error {
	if !gjson.ValidBytes(m.Payload) {
		return errors.New("invalid event payload")
	}
	fields := gjson.GetManyBytes(m.Payload,
		"booking.status",
		"booking.date",
		"booking.slot.start_time",
		"booking.slot.end_time",
		"booking.pricing.total",
		"changed_fields",
	)
	log.Printf("booking_event id=%s kind=%s code=%s status=%s date=%s slot=%s-%s total=%s changed=%s",
		m.ID, m.Kind, m.BookingCode,
		fields[0].String(), fields[1].String(), fields[2].String(), fields[3].String(),
		fields[4].String(), fields[5].Raw)
	return nil
}

// MultiSink publishes to every sink and joins their errors.
type MultiSink []Sink

func (ms MultiSink) Publish(ctx context.Context, m Message) error {
	var errs []error
	for _, s := range ms {
		if err := s.Publish(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
