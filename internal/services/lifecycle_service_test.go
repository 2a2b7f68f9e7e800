package services

import (
	"context"
	"sync"
	"testing"

	"supplymatch_backend/internal/models"
	"supplymatch_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// world wires the services over in-memory fakes.
type world struct {
	requests   *fakeRequestRepo
	suppliers  *fakeSupplierRepo
	matches    *fakeMatchRepo
	categories *fakeCategoryRepo
	notifier   *fakeNotifier
	lifecycle  LifecycleService
	matching   MatchingService
	matchSvc   MatchService
}

func newWorld() *world {
	requests := newFakeRequestRepo()
	suppliers := newFakeSupplierRepo()
	matches := newFakeMatchRepo(requests, suppliers)
	categories := newFakeCategoryRepo("Electronics", "Furniture")
	notifier := &fakeNotifier{}

	matching := NewMatchingService(suppliers, matches)
	return &world{
		requests:   requests,
		suppliers:  suppliers,
		matches:    matches,
		categories: categories,
		notifier:   notifier,
		lifecycle:  NewLifecycleService(requests, suppliers, matching, notifier),
		matching:   matching,
		matchSvc:   NewMatchService(matches, requests),
	}
}

func (w *world) addRequest(t *testing.T, category string, status models.ModerationStatus, ownerID string) *models.Request {
	t.Helper()
	request := &models.Request{
		CategoryID:      w.categories.idOf(category),
		Description:     "Looking for 40 units, delivery within two weeks",
		ContactUsername: "seeker01",
		ContactPhone:    "+77001234567",
		ContactEmail:    "seeker@example.com",
		Status:          status,
		CreatedBy:       ownerID,
	}
	require.NoError(t, w.requests.Create(context.Background(), request))
	return request
}

func (w *world) addSupplier(t *testing.T, category string, status models.ModerationStatus, ownerID string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		CategoryID:  w.categories.idOf(category),
		CompanyName: "Acme Supplies",
		Status:      status,
		CreatedBy:   ownerID,
	}
	require.NoError(t, w.suppliers.Create(context.Background(), supplier))
	return supplier
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestApproveRequest_MatchesAndNotifies(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	w.addSupplier(t, "Electronics", models.StatusApproved, uuid.NewString())
	w.addSupplier(t, "Electronics", models.StatusApproved, uuid.NewString())
	w.addSupplier(t, "Electronics", models.StatusPending, uuid.NewString())  // not approved: excluded
	w.addSupplier(t, "Furniture", models.StatusApproved, uuid.NewString())   // wrong category: excluded
	request := w.addRequest(t, "Electronics", models.StatusPending, uuid.NewString())

	result, err := w.lifecycle.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchedSupplierCount)

	stored, err := w.requests.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)

	assert.Equal(t, 1, w.notifier.calls())
	assert.Len(t, w.notifier.lastBatch(), 2)
	for _, match := range w.notifier.lastBatch() {
		assert.Equal(t, models.MatchStatusPending, match.Status)
		assert.Equal(t, request.ID, match.RequestID)
	}
}

func TestApproveRequest_EmptyCategorySucceedsWithZeroMatches(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusPending, uuid.NewString())

	result, err := w.lifecycle.ApproveRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchedSupplierCount)

	stored, err := w.requests.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
}

func TestApproveRequest_OnlyFromPending(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	for _, status := range []models.ModerationStatus{models.StatusApproved, models.StatusRejected} {
		request := w.addRequest(t, "Electronics", status, uuid.NewString())
		_, err := w.lifecycle.ApproveRequest(ctx, request.ID)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	}
}

func TestApproveRequest_NotFound(t *testing.T) {
	t.Parallel()
	w := newWorld()

	_, err := w.lifecycle.ApproveRequest(context.Background(), uuid.NewString())
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestApproveRequest_ConcurrentAdminsOneWins(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusPending, uuid.NewString())

	const admins = 8
	var wg sync.WaitGroup
	errs := make([]error, admins)
	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.lifecycle.ApproveRequest(ctx, request.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assertCode(t, err, apperrors.CodeInvalidTransition)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one approval must win")
}

func TestRejectRequest_RequiresReason(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusPending, uuid.NewString())

	for _, reason := range []string{"", "   ", "\t\n"} {
		err := w.lifecycle.RejectRequest(ctx, request.ID, reason)
		assertCode(t, err, apperrors.CodeValidationFailed)
	}

	// The entity is untouched after the failed attempts.
	stored, err := w.requests.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestRejectRequest_StoresReason(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusPending, uuid.NewString())

	require.NoError(t, w.lifecycle.RejectRequest(ctx, request.ID, "description too vague"))

	stored, err := w.requests.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, "description too vague", stored.RejectionReason)
}

func TestReapplyRequest_ResetsStatusAndClearsReason(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	owner := uuid.NewString()

	request := w.addRequest(t, "Electronics", models.StatusPending, owner)
	require.NoError(t, w.lifecycle.RejectRequest(ctx, request.ID, "incomplete"))

	require.NoError(t, w.lifecycle.ReapplyRequest(ctx, request.ID, owner))

	stored, err := w.requests.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Empty(t, stored.RejectionReason)
}

func TestReapplyRequest_OwnerOnly(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusRejected, uuid.NewString())

	err := w.lifecycle.ReapplyRequest(ctx, request.ID, uuid.NewString())
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestReapplyRequest_OnlyFromRejected(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	owner := uuid.NewString()

	for _, status := range []models.ModerationStatus{models.StatusPending, models.StatusApproved} {
		request := w.addRequest(t, "Electronics", status, owner)
		err := w.lifecycle.ReapplyRequest(ctx, request.ID, owner)
		assertCode(t, err, apperrors.CodeInvalidTransition)
	}
}

func TestSupplierLifecycle(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	owner := uuid.NewString()

	supplier := w.addSupplier(t, "Furniture", models.StatusPending, owner)

	// Reject needs a reason.
	assertCode(t, w.lifecycle.RejectSupplier(ctx, supplier.ID, " "), apperrors.CodeValidationFailed)

	require.NoError(t, w.lifecycle.RejectSupplier(ctx, supplier.ID, "no company details"))
	stored, err := w.suppliers.FindByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, "no company details", stored.RejectionReason)

	// Only the owner can resubmit.
	assertCode(t, w.lifecycle.ReapplySupplier(ctx, supplier.ID, uuid.NewString()), apperrors.CodeForbidden)

	require.NoError(t, w.lifecycle.ReapplySupplier(ctx, supplier.ID, owner))
	stored, err = w.suppliers.FindByID(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Empty(t, stored.RejectionReason)

	require.NoError(t, w.lifecycle.ApproveSupplier(ctx, supplier.ID))
	assertCode(t, w.lifecycle.ApproveSupplier(ctx, supplier.ID), apperrors.CodeInvalidTransition)
}
