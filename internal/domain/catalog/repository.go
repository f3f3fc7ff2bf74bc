package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

var ErrNotFound = errors.New("catalog record not found")

// Repository is the read-only view of locations, screens and event
// packages. Those records are owned by the CRUD side.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetScreen(ctx context.Context, id int64) (*domain.Screen, error) {
	var s domain.Screen
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *Repository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	var l domain.Location
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *Repository) GetEventPackage(ctx context.Context, id int64) (*domain.EventPackage, error) {
	var p domain.EventPackage
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListScreens returns the active screens of a location ordered by name.
func (r *Repository) ListScreens(ctx context.Context, locationID int64) ([]domain.Screen, error) {
	var rows []domain.Screen
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND is_active = ?", locationID, true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
