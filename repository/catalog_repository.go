package repository

import (
	"context"
	"errors"

	"delivery-api/apperrors"
	"delivery-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogReader is checkout's read-only view of the menu subsystem: operating
// status and item price/availability at the moment of checkout.
type CatalogReader interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// AddressReader is checkout's read-only view of the address subsystem, used
// to confirm ownership and take the delivery snapshot.
type AddressReader interface {
	GetClientAddress(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

// GormCatalogRepository implements CatalogReader and AddressReader over the
// shared relational store.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new instance of GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("restaurant", id.String())
		}
		return nil, apperrors.Transient(err)
	}
	return &restaurant, nil
}

func (r *GormCatalogRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("menu item", id.String())
		}
		return nil, apperrors.Transient(err)
	}
	return &item, nil
}

func (r *GormCatalogRepository) GetClientAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("address", id.String())
		}
		return nil, apperrors.Transient(err)
	}
	return &address, nil
}
