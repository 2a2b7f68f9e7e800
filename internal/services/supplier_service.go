package services

import (
	"context"

	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/services/dto"
	"supplymatch_backend/pkg/apperrors"
)

// SupplierService covers supplier-side offering operations. Status
// transitions belong to LifecycleService.
type SupplierService interface {
	Create(ctx context.Context, userID string, req *dto.CreateSupplierRequest) (*models.Supplier, error)
	ListMine(ctx context.Context, userID string) ([]models.Supplier, error)
	ListByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Supplier, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
	categoryRepo repositories.CategoryRepository
}

func NewSupplierService(
	supplierRepo repositories.SupplierRepository,
	categoryRepo repositories.CategoryRepository,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *supplierService) Create(ctx context.Context, userID string, req *dto.CreateSupplierRequest) (*models.Supplier, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, apperrors.NewBadRequestError("unknown category")
	}

	supplier := &models.Supplier{
		CategoryID:  req.CategoryID,
		CompanyName: req.CompanyName,
		Description: req.Description,
		Status:      models.StatusPending,
		CreatedBy:   userID,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, apperrors.ErrDatabase(err, "supplier")
	}
	return supplier, nil
}

func (s *supplierService) ListMine(ctx context.Context, userID string) ([]models.Supplier, error) {
	suppliers, err := s.supplierRepo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "supplier")
	}
	return suppliers, nil
}

func (s *supplierService) ListByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Supplier, error) {
	suppliers, err := s.supplierRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "supplier")
	}
	return suppliers, nil
}
