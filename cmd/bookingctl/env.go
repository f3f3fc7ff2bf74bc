package main

import (
	"gorm.io/gorm"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/config"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/database"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/catalog"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/notification"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/reservation"
)

// openDB loads configuration, connects and brings every table up to date.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrateAll(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrateAll(db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := reservation.Migrate(db); err != nil {
		return err
	}
	return notification.Migrate(db)
}

// readOnlyService builds a booking service with no notifier, enough for
// availability and quotes.
func readOnlyService(cfg *config.Config, db *gorm.DB) *reservation.Service {
	return reservation.NewService(
		reservation.NewRepository(db),
		catalog.NewRepository(db),
		nil,
		reservation.Options{
			BookingIDPrefix:   cfg.BookingIDPrefix,
			IdentifierRetries: cfg.IdentifierRetries,
			Location:          cfg.Location,
		},
	)
}
