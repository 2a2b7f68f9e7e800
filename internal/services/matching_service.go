package services

import (
	"context"

	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/pkg/apperrors"
)

// MatchingService computes the candidate supplier set for an approved request
// and durably records one match per candidate. It produces data only; the
// notification queue handles delivery.
type MatchingService interface {
	// ComputeMatches is idempotent: re-invocation for the same request
	// returns the same match rows without creating duplicates. The input
	// request must already be approved.
	ComputeMatches(ctx context.Context, request *models.Request) ([]models.Match, error)
}

type matchingService struct {
	supplierRepo repositories.SupplierRepository
	matchRepo    repositories.MatchRepository
}

func NewMatchingService(
	supplierRepo repositories.SupplierRepository,
	matchRepo repositories.MatchRepository,
) MatchingService {
	return &matchingService{
		supplierRepo: supplierRepo,
		matchRepo:    matchRepo,
	}
}

func (s *matchingService) ComputeMatches(ctx context.Context, request *models.Request) ([]models.Match, error) {
	if request.Status != models.StatusApproved {
		return nil, apperrors.ErrInvalidTransition("matching", "matching runs only for approved requests")
	}

	candidates, err := s.supplierRepo.FindApprovedByCategory(ctx, request.CategoryID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "matching")
	}

	if len(candidates) == 0 {
		// No approved supplier in the category. Not an error: the approval
		// itself must still succeed.
		logger.CtxInfo(ctx, "no matching suppliers", "request_id", request.ID, "category_id", request.CategoryID)
		return nil, nil
	}

	matches := make([]models.Match, 0, len(candidates))
	for i := range candidates {
		supplier := candidates[i]

		match, err := s.matchRepo.Upsert(ctx, request.ID, supplier.ID)
		if err != nil {
			// The unique index makes duplicates impossible through this path;
			// any other storage failure aborts the run so a retry can finish
			// the remaining candidates idempotently.
			return nil, apperrors.ErrDatabase(err, "matching")
		}

		match.Supplier = &supplier
		match.Request = request
		matches = append(matches, *match)
	}

	logger.CtxInfo(ctx, "matches computed",
		"request_id", request.ID,
		"category_id", request.CategoryID,
		"count", len(matches),
	)
	return matches, nil
}
