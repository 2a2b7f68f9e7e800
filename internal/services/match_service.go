package services

import (
	"context"

	"supplymatch_backend/internal/logger"
	"supplymatch_backend/internal/models"
	"supplymatch_backend/internal/repositories"
	"supplymatch_backend/internal/services/dto"
	"supplymatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// MatchService processes supplier decisions on matches and serves match
// listings. A match transitions out of pending exactly once; the losing side
// of a race observes AlreadyDecided.
type MatchService interface {
	Respond(ctx context.Context, matchID, userID string, decision models.MatchDecision) (*dto.MatchDecisionResponse, error)
	ListForRequest(ctx context.Context, requestID, userID string) ([]models.Match, error)
	ListForOwner(ctx context.Context, userID string) ([]models.Match, error)
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	requestRepo repositories.RequestRepository
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	requestRepo repositories.RequestRepository,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		requestRepo: requestRepo,
	}
}

func (s *matchService) Respond(ctx context.Context, matchID, userID string, decision models.MatchDecision) (*dto.MatchDecisionResponse, error) {
	if !decision.Valid() {
		return nil, apperrors.NewBadRequestError("decision must be accept or reject")
	}

	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMatchNotFound
		}
		return nil, apperrors.ErrDatabase(err, "match")
	}

	// Ownership check before any mutation: the responding user must own the
	// supplier this match points at.
	if match.Supplier == nil || match.Supplier.CreatedBy != userID {
		return nil, apperrors.ErrNotOwner
	}

	// Conditional transition in the same statement as the precondition, so a
	// duplicate button press cannot succeed twice.
	ok, err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusPending, decision.Status())
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "match")
	}
	if !ok {
		return nil, apperrors.ErrAlreadyDecided
	}

	response := &dto.MatchDecisionResponse{
		MatchID: matchID,
		Status:  decision.Status(),
	}

	if decision == models.DecisionAccept && match.Request != nil {
		// One-time side effect of acceptance: the requester's contact
		// details become visible to the supplier. The data ships with the
		// request join; there is no separate permission table.
		contact := match.Request.ContactInfo()
		response.Contact = &contact
	}

	logger.CtxInfo(ctx, "match decided",
		"match_id", matchID,
		"supplier_user_id", userID,
		"decision", decision,
	)
	return response, nil
}

func (s *matchService) ListForRequest(ctx context.Context, requestID, userID string) ([]models.Match, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOrDatabase(err, "request")
	}
	if request.CreatedBy != userID {
		return nil, apperrors.ErrNotOwner
	}
	matches, err := s.matchRepo.ListForRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "match")
	}
	return matches, nil
}

func (s *matchService) ListForOwner(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := s.matchRepo.ListForOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "match")
	}
	return matches, nil
}
