package services

import (
	"context"

	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/pkg/apperrors"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "category")
	}
	return categories, nil
}
