package repositories

import (
	"context"

	"supplymatch_backend/internal/models"

	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id string) (*models.Request, error)
	FindByOwner(ctx context.Context, userID string) ([]models.Request, error)
	FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Request, error)
	// UpdateStatus performs a compare-and-set transition: the row is updated
	// only if its current status equals from. Returns false on a mismatch.
	// reason is stored on rejection and cleared otherwise.
	UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error)
}

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

func (r *RequestRepositoryImpl) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *RequestRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) FindByOwner(ctx context.Context, userID string) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
