package services

import (
	"context"
	"strings"

	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/services/dto"
	"supplymatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Notifier is the slice of the notification queue the lifecycle needs.
// Enqueue must not block: approval latency is independent of match count.
type Notifier interface {
	Enqueue(matches []models.Match, request *models.Request)
}

// LifecycleService enforces the legal status transitions of requests and
// suppliers. Every transition is a conditional update so two concurrent admin
// actions on the same entity cannot both succeed.
type LifecycleService interface {
	// ApproveRequest flips the request to approved and, within the same
	// call, computes matches and hands them to the notification queue.
	// Delivery itself is asynchronous.
	ApproveRequest(ctx context.Context, requestID string) (*dto.ApprovalResult, error)
	RejectRequest(ctx context.Context, requestID, reason string) error
	// ReapplyRequest resets a rejected request to pending. Owner only;
	// clears the rejection reason.
	ReapplyRequest(ctx context.Context, requestID, userID string) error

	ApproveSupplier(ctx context.Context, supplierID string) error
	RejectSupplier(ctx context.Context, supplierID, reason string) error
	ReapplySupplier(ctx context.Context, supplierID, userID string) error
}

type lifecycleService struct {
	requestRepo  repositories.RequestRepository
	supplierRepo repositories.SupplierRepository
	matching     MatchingService
	notifier     Notifier
}

func NewLifecycleService(
	requestRepo repositories.RequestRepository,
	supplierRepo repositories.SupplierRepository,
	matching MatchingService,
	notifier Notifier,
) LifecycleService {
	return &lifecycleService{
		requestRepo:  requestRepo,
		supplierRepo: supplierRepo,
		matching:     matching,
		notifier:     notifier,
	}
}

func (s *lifecycleService) ApproveRequest(ctx context.Context, requestID string) (*dto.ApprovalResult, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOrDatabase(err, "request")
	}

	ok, err := s.requestRepo.UpdateStatus(ctx, requestID, models.StatusPending, models.StatusApproved, "")
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return nil, apperrors.ErrInvalidTransition("lifecycle", "request is not pending")
	}

	request.Status = models.StatusApproved
	request.RejectionReason = ""

	// Matching runs synchronously as part of the approval so the admin's
	// action and the match computation form one logical operation.
	matches, err := s.matching.ComputeMatches(ctx, request)
	if err != nil {
		// The approval is already durable; matching is idempotent and the
		// reconciliation sweep catches never-notified matches, so surface
		// the failure instead of unwinding the status.
		logger.CtxWithError(ctx, "matching failed after approval", err, "request_id", requestID)
		return nil, err
	}

	s.notifier.Enqueue(matches, request)

	logger.CtxInfo(ctx, "request approved", "request_id", requestID, "matched_suppliers", len(matches))
	return &dto.ApprovalResult{MatchedSupplierCount: len(matches)}, nil
}

func (s *lifecycleService) RejectRequest(ctx context.Context, requestID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.ErrRejectionReasonRequired
	}

	if _, err := s.requestRepo.FindByID(ctx, requestID); err != nil {
		return notFoundOrDatabase(err, "request")
	}

	ok, err := s.requestRepo.UpdateStatus(ctx, requestID, models.StatusPending, models.StatusRejected, reason)
	if err != nil {
		return apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return apperrors.ErrInvalidTransition("lifecycle", "request is not pending")
	}

	logger.CtxInfo(ctx, "request rejected", "request_id", requestID)
	return nil
}

func (s *lifecycleService) ReapplyRequest(ctx context.Context, requestID, userID string) error {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return notFoundOrDatabase(err, "request")
	}
	if request.CreatedBy != userID {
		return apperrors.ErrNotOwner
	}

	ok, err := s.requestRepo.UpdateStatus(ctx, requestID, models.StatusRejected, models.StatusPending, "")
	if err != nil {
		return apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return apperrors.ErrInvalidTransition("lifecycle", "only rejected requests can be reapplied")
	}

	logger.CtxInfo(ctx, "request reapplied", "request_id", requestID)
	return nil
}

func (s *lifecycleService) ApproveSupplier(ctx context.Context, supplierID string) error {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return notFoundOrDatabase(err, "supplier")
	}

	ok, err := s.supplierRepo.UpdateStatus(ctx, supplierID, models.StatusPending, models.StatusApproved, "")
	if err != nil {
		return apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return apperrors.ErrInvalidTransition("lifecycle", "supplier is not pending")
	}

	logger.CtxInfo(ctx, "supplier approved", "supplier_id", supplierID)
	return nil
}

func (s *lifecycleService) RejectSupplier(ctx context.Context, supplierID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.ErrRejectionReasonRequired
	}

	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return notFoundOrDatabase(err, "supplier")
	}

	ok, err := s.supplierRepo.UpdateStatus(ctx, supplierID, models.StatusPending, models.StatusRejected, reason)
	if err != nil {
		return apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return apperrors.ErrInvalidTransition("lifecycle", "supplier is not pending")
	}

	logger.CtxInfo(ctx, "supplier rejected", "supplier_id", supplierID)
	return nil
}

func (s *lifecycleService) ReapplySupplier(ctx context.Context, supplierID, userID string) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return notFoundOrDatabase(err, "supplier")
	}
	if supplier.CreatedBy != userID {
		return apperrors.ErrNotOwner
	}

	ok, err := s.supplierRepo.UpdateStatus(ctx, supplierID, models.StatusRejected, models.StatusPending, "")
	if err != nil {
		return apperrors.ErrDatabase(err, "lifecycle")
	}
	if !ok {
		return apperrors.ErrInvalidTransition("lifecycle", "only rejected suppliers can be reapplied")
	}

	logger.CtxInfo(ctx, "supplier reapplied", "supplier_id", supplierID)
	return nil
}

// notFoundOrDatabase maps a repository miss to 404 and anything else to a
// storage error.
func notFoundOrDatabase(err error, domain string) error {
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.ErrDatabase(err, domain)
}
