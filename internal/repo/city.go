package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/citiesmanager/cities-api/internal/models"
)

// ErrConcurrentModification means the row changed between the caller's read
// and this write. The caller must re-fetch and retry.
var ErrConcurrentModification = errors.New("city modified concurrently")

// ListCities returns full records ordered by name descending (v1 contract).
func (r *GormRepo) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := r.DB.WithContext(ctx).Order("name DESC").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

// ListCityNames returns names only, ascending (v2 contract).
func (r *GormRepo) ListCityNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.DB.WithContext(ctx).Model(&models.City{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list city names: %w", err)
	}
	return names, nil
}

func (r *GormRepo) GetCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *GormRepo) CreateCity(ctx context.Context, name string) (*models.City, error) {
	city := models.City{Name: name}
	if err := r.DB.WithContext(ctx).Create(&city).Error; err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	return &city, nil
}

// UpdateCityName writes a new name guarded by the row state the caller read.
// The UPDATE only matches while the stored name still equals the snapshot's;
// zero rows affected means the row was modified or deleted underneath us.
func (r *GormRepo) UpdateCityName(ctx context.Context, snapshot *models.City, name string) error {
	res := r.DB.WithContext(ctx).Model(&models.City{}).
		Where("id = ? AND name = ?", snapshot.ID, snapshot.Name).
		Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("update city: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.City{}).Where("id = ?", snapshot.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("update city: %w", err)
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrConcurrentModification
	}
	return nil
}

func (r *GormRepo) DeleteCity(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.City{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete city: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
