package domain

import "time"

// Location is a venue housing one or more screens.
type Location struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Screens []Screen `json:"screens,omitempty" gorm:"foreignKey:LocationID"`
}

// Screen is the bookable resource.
type Screen struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	LocationID   int64     `json:"location_id" gorm:"index"`
	Name         string    `json:"name" validate:"required"`
	Capacity     int       `json:"capacity" validate:"required,gt=0"`
	PricePerHour float64   `json:"price_per_hour" validate:"gte=0"`
	ComboPrice   float64   `json:"combo_price" validate:"gte=0"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EventPackage is a named bundle such as "Birthday Party".
type EventPackage struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" validate:"required"`
	BasePrice     float64   `json:"base_price" validate:"gte=0"`
	ComboPrice    float64   `json:"combo_price" validate:"gte=0"`
	DurationHours float64   `json:"duration_hours"`
	MaxCapacity   int       `json:"max_capacity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
