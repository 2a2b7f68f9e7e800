package repositories

import (
	"context"
	"time"

	"supplymatch_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository interface {
	// Upsert creates the match for (requestID, supplierID) or returns the
	// existing row. Idempotency is enforced by the unique index on the pair,
	// not by an application-side existence check, so it holds under
	// concurrent callers.
	Upsert(ctx context.Context, requestID, supplierID string) (*models.Match, error)
	FindByID(ctx context.Context, id string) (*models.Match, error)
	// UpdateStatus performs the compare-and-set transition from -> to.
	// Returns false when the row was not in status from.
	UpdateStatus(ctx context.Context, id string, from, to models.MatchStatus) (bool, error)
	// MarkNotified records the first successful delivery. Later successes are
	// no-ops so the timestamp keeps the original delivery time.
	MarkNotified(ctx context.Context, id string, at time.Time) error
	ListForRequest(ctx context.Context, requestID string) ([]models.Match, error)
	ListForSupplier(ctx context.Context, supplierID string) ([]models.Match, error)
	ListForOwner(ctx context.Context, userID string) ([]models.Match, error)
	// FindUnnotifiedPending returns pending matches with no recorded delivery
	// older than the cutoff; the reconciliation sweep re-enqueues them.
	FindUnnotifiedPending(ctx context.Context, olderThan time.Time) ([]models.Match, error)
}

type MatchRepositoryImpl struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &MatchRepositoryImpl{db: db}
}

func (r *MatchRepositoryImpl) Upsert(ctx context.Context, requestID, supplierID string) (*models.Match, error) {
	match := models.Match{
		RequestID:  requestID,
		SupplierID: supplierID,
		Status:     models.MatchStatusPending,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}, {Name: "supplier_id"}},
			DoNothing: true,
		}).
		Create(&match).Error
	if err != nil {
		return nil, err
	}

	// On conflict the insert is skipped; reload to return the existing row
	// (also normalizes the generated id after a fresh insert).
	var existing models.Match
	err = r.db.WithContext(ctx).
		First(&existing, "request_id = ? AND supplier_id = ?", requestID, supplierID).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *MatchRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Supplier").
		First(&match, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to models.MatchStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *MatchRepositoryImpl) MarkNotified(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND notified_at IS NULL", id).
		Update("notified_at", at).Error
}

func (r *MatchRepositoryImpl) ListForRequest(ctx context.Context, requestID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&matches).Error
	return matches, err
}

func (r *MatchRepositoryImpl) ListForSupplier(ctx context.Context, supplierID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("Request").
		Where("supplier_id = ?", supplierID).
		Order("created_at ASC").
		Find(&matches).Error
	return matches, err
}

func (r *MatchRepositoryImpl) ListForOwner(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Supplier").
		Joins("JOIN suppliers ON suppliers.id = matches.supplier_id").
		Where("suppliers.created_by = ?", userID).
		Order("matches.created_at DESC").
		Find(&matches).Error
	return matches, err
}

func (r *MatchRepositoryImpl) FindUnnotifiedPending(ctx context.Context, olderThan time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Supplier").
		Where("status = ? AND notified_at IS NULL AND created_at < ?", models.MatchStatusPending, olderThan).
		Find(&matches).Error
	return matches, err
}
