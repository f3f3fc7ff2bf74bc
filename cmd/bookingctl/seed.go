package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/catalog"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/notification"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/reservation"
)

func newSeedCmd() *cobra.Command {
	var (
		reset    bool
		bookings bool
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Load demo locations, screens and event packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}

			if reset {
				// Safe order for foreign keys.
				log.Println("Cleaning old data...")
				for _, table := range []string{"outbox_events", "bookings", "screens", "event_packages", "locations"} {
					if err := db.Exec("DELETE FROM " + table).Error; err != nil {
						return fmt.Errorf("clean %s: %w", table, err)
					}
				}
			}

			if err := seedCatalog(db); err != nil {
				return err
			}
			if !bookings {
				return nil
			}

			svc := reservation.NewService(
				reservation.NewRepository(db),
				catalog.NewRepository(db),
				notification.NewService(notification.NewRepository(db)),
				reservation.Options{
					BookingIDPrefix:   cfg.BookingIDPrefix,
					IdentifierRetries: cfg.IdentifierRetries,
					Location:          cfg.Location,
				},
			)
			date := time.Now().In(cfg.Location).AddDate(0, 0, 1).Format(domain.DateLayout)
			pkg := int64(1)
			demo := []reservation.CreateBookingRequest{
				{
					ScreenID: 1, LocationID: 1, Date: date, StartTime: "10:00", EndTime: "12:00",
					CustomerName: "Ananya Rao", CustomerEmail: "ananya@example.com", CustomerPhone: "9876543210",
					GuestCount: 6, PriceType: domain.PriceHourly,
					Services: domain.ServiceFlags{"decorations": true}, AdvanceAmount: 1000,
				},
				{
					ScreenID: 1, LocationID: 1, Date: date, StartTime: "14:00", EndTime: "17:00",
					CustomerName: "Karthik S", CustomerEmail: "karthik@example.com", CustomerPhone: "9123456780",
					GuestCount: 10, EventPackageID: &pkg, PriceType: domain.PriceCombo,
					Services: domain.ServiceFlags{"cake": true, "photography": true}, PaymentMethod: "upi", AdvanceAmount: 2000,
				},
			}
			for _, req := range demo {
				b, err := svc.CreateBooking(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("seed booking for %s: %w", req.CustomerName, err)
				}
				log.Printf("Booking created: %s %s %s-%s total=%.2f", b.BookingCode, b.BookingDate, b.Slot.StartTime, b.Slot.EndTime, b.Pricing.Total)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&reset, "reset", false, "delete existing catalog, bookings and outbox rows first")
	c.Flags().BoolVar(&bookings, "bookings", false, "also create demo bookings for tomorrow")
	return c
}

func seedCatalog(db *gorm.DB) error {
	log.Println("Creating locations...")
	locations := []domain.Location{
		{ID: 1, Name: "Era-flix Koramangala", Address: "80 Feet Road, Koramangala", City: "Bengaluru", IsActive: true},
		{ID: 2, Name: "Era-flix Indiranagar", Address: "100 Feet Road, Indiranagar", City: "Bengaluru", IsActive: true},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&locations).Error; err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	log.Println("Creating screens...")
	screens := []domain.Screen{
		{ID: 1, LocationID: 1, Name: "Screen 1 Dolby", Capacity: 12, PricePerHour: 1500, ComboPrice: 1200, IsActive: true},
		{ID: 2, LocationID: 1, Name: "Screen 2 Couple", Capacity: 4, PricePerHour: 999, ComboPrice: 850, IsActive: true},
		{ID: 3, LocationID: 2, Name: "Screen 3 Party", Capacity: 20, PricePerHour: 2000, ComboPrice: 1750, IsActive: true},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&screens).Error; err != nil {
		return fmt.Errorf("seed screens: %w", err)
	}

	log.Println("Creating event packages...")
	packages := []domain.EventPackage{
		{ID: 1, Name: "Birthday Party", BasePrice: 1500, ComboPrice: 1000, DurationHours: 3, MaxCapacity: 15, IsActive: true},
		{ID: 2, Name: "Anniversary", BasePrice: 1200, ComboPrice: 900, DurationHours: 2, MaxCapacity: 4, IsActive: true},
		{ID: 3, Name: "Proposal", BasePrice: 2000, ComboPrice: 1500, DurationHours: 2, MaxCapacity: 2, IsActive: true},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&packages).Error; err != nil {
		return fmt.Errorf("seed event packages: %w", err)
	}

	log.Printf("Seed complete: %d locations, %d screens, %d packages", len(locations), len(screens), len(packages))
	return nil
}
