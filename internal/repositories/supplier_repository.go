package repositories

import (
	"context"

	"supplymatch_backend/internal/models"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id string) (*models.Supplier, error)
	FindByOwner(ctx context.Context, userID string) ([]models.Supplier, error)
	FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Supplier, error)
	// FindApprovedByCategory returns the matching candidate set for an approved
	// request in the given category.
	FindApprovedByCategory(ctx context.Context, categoryID string) ([]models.Supplier, error)
	// UpdateStatus has compare-and-set semantics, see RequestRepository.
	UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error)
}

type SupplierRepositoryImpl struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &SupplierRepositoryImpl{db: db}
}

func (r *SupplierRepositoryImpl) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *SupplierRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepositoryImpl) FindByOwner(ctx context.Context, userID string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepositoryImpl) FindByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepositoryImpl) FindApprovedByCategory(ctx context.Context, categoryID string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND status = ?", categoryID, models.StatusApproved).
		Find(&suppliers).Error
	return suppliers, err
}

func (r *SupplierRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to models.ModerationStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
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
