package notification

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&OutboxEvent{}); err != nil {
		return fmt.Errorf("migrate outbox: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, e *OutboxEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListPending returns the oldest pending events first.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) MarkSent(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     StatusSent,
			"sent_at":    now,
			"last_error": "",
			"updated_at": now,
		}).Error
}

// RecordFailure counts a failed publish. The event is parked as failed
// once it reaches maxAttempts.
func (r *Repository) RecordFailure(ctx context.Context, e OutboxEvent, cause error, maxAttempts int) (OutboxStatus, error) {
	attempts := e.Attempts + 1
	status := StatusPending
	if maxAttempts > 0 && attempts >= maxAttempts {
		status = StatusFailed
	}
	err := r.db.WithContext(ctx).Model(&OutboxEvent{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"status":     status,
			"attempts":   attempts,
			"last_error": cause.Error(),
			"updated_at": time.Now().UTC(),
		}).Error
	return status, err
}

func (r *Repository) Get(ctx context.Context, id string) (*OutboxEvent, error) {
	var e OutboxEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteSentOlderThan purges delivered events past the retention window.
func (r *Repository) DeleteSentOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", StatusSent, cutoff).
		Delete(&OutboxEvent{})
	return res.RowsAffected, res.Error
}
