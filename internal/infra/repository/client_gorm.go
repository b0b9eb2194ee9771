package repository

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *GormRepository) FindClientByName(
	ctx context.Context,
	name string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *GormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// SetClientPhone only fills an empty phone; a stored number is never replaced.
func (r *GormRepository) SetClientPhone(
	ctx context.Context,
	clientID uint,
	phone string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND (phone IS NULL OR phone = '')", clientID).
		Update("phone", phone).Error
}
