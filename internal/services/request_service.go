package services

import (
	"context"

	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/services/dto"
	"supplymatch_backend/pkg/apperrors"
)

// RequestService covers seeker-side request operations. Status transitions
// belong to LifecycleService.
type RequestService interface {
	Create(ctx context.Context, userID string, req *dto.CreateRequestRequest) (*models.Request, error)
	ListMine(ctx context.Context, userID string) ([]models.Request, error)
	ListByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Request, error)
}

type requestService struct {
	requestRepo  repositories.RequestRepository
	categoryRepo repositories.CategoryRepository
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	categoryRepo repositories.CategoryRepository,
) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *requestService) Create(ctx context.Context, userID string, req *dto.CreateRequestRequest) (*models.Request, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, apperrors.NewBadRequestError("unknown category")
	}

	request := &models.Request{
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		ContactUsername: req.ContactUsername,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		Attachments:     req.Attachments,
		Status:          models.StatusPending,
		CreatedBy:       userID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, apperrors.ErrDatabase(err, "request")
	}
	return request, nil
}

func (s *requestService) ListMine(ctx context.Context, userID string) ([]models.Request, error) {
	requests, err := s.requestRepo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "request")
	}
	return requests, nil
}

func (s *requestService) ListByStatus(ctx context.Context, status models.ModerationStatus) ([]models.Request, error) {
	requests, err := s.requestRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "request")
	}
	return requests, nil
}
