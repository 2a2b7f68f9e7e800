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

// matchFixture creates an approved request, an approved supplier owned by
// supplierUser, and the pending match between them.
func matchFixture(t *testing.T, w *world, supplierUser string) (*models.Request, *models.Supplier, *models.Match) {
	t.Helper()
	ctx := context.Background()

	request := w.addRequest(t, "Electronics", models.StatusApproved, uuid.NewString())
	supplier := w.addSupplier(t, "Electronics", models.StatusApproved, supplierUser)
	match, err := w.matches.Upsert(ctx, request.ID, supplier.ID)
	require.NoError(t, err)
	return request, supplier, match
}

func TestRespond_AcceptRevealsContact(t *testing.T) {
	t.Parallel()
	w := newWorld()
	supplierUser := uuid.NewString()
	request, _, match := matchFixture(t, w, supplierUser)

	result, err := w.matchSvc.Respond(context.Background(), match.ID, supplierUser, models.DecisionAccept)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusAccepted, result.Status)
	require.NotNil(t, result.Contact)
	assert.Equal(t, request.ContactUsername, result.Contact.Username)
	assert.Equal(t, request.ContactPhone, result.Contact.Phone)
	assert.Equal(t, request.ContactEmail, result.Contact.Email)
}

func TestRespond_RejectHidesContact(t *testing.T) {
	t.Parallel()
	w := newWorld()
	supplierUser := uuid.NewString()
	_, _, match := matchFixture(t, w, supplierUser)

	result, err := w.matchSvc.Respond(context.Background(), match.ID, supplierUser, models.DecisionReject)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusRejected, result.Status)
	assert.Nil(t, result.Contact)
}

func TestRespond_SecondDecisionRejected(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	supplierUser := uuid.NewString()
	_, _, match := matchFixture(t, w, supplierUser)

	_, err := w.matchSvc.Respond(ctx, match.ID, supplierUser, models.DecisionReject)
	require.NoError(t, err)

	// A second press of either button fails; the first decision stands.
	_, err = w.matchSvc.Respond(ctx, match.ID, supplierUser, models.DecisionAccept)
	assertCode(t, err, apperrors.CodeAlreadyDecided)

	stored, err := w.matches.FindByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusRejected, stored.Status)
}

func TestRespond_ConcurrentDecisionsOneWins(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	supplierUser := uuid.NewString()
	_, _, match := matchFixture(t, w, supplierUser)

	const presses = 10
	var wg sync.WaitGroup
	errs := make([]error, presses)
	for i := 0; i < presses; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision := models.DecisionAccept
			if i%2 == 1 {
				decision = models.DecisionReject
			}
			_, errs[i] = w.matchSvc.Respond(ctx, match.ID, supplierUser, decision)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assertCode(t, err, apperrors.CodeAlreadyDecided)
		}
	}
	assert.Equal(t, 1, succeeded, "the match transitions out of pending exactly once")
}

func TestRespond_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	w := newWorld()
	_, _, match := matchFixture(t, w, uuid.NewString())

	_, err := w.matchSvc.Respond(context.Background(), match.ID, uuid.NewString(), models.DecisionAccept)
	assertCode(t, err, apperrors.CodeForbidden)

	// Still pending, still decidable by the real owner.
	stored, findErr := w.matches.FindByID(context.Background(), match.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.MatchStatusPending, stored.Status)
}

func TestRespond_UnknownMatch(t *testing.T) {
	t.Parallel()
	w := newWorld()

	_, err := w.matchSvc.Respond(context.Background(), uuid.NewString(), uuid.NewString(), models.DecisionAccept)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestRespond_InvalidDecision(t *testing.T) {
	t.Parallel()
	w := newWorld()
	supplierUser := uuid.NewString()
	_, _, match := matchFixture(t, w, supplierUser)

	_, err := w.matchSvc.Respond(context.Background(), match.ID, supplierUser, models.MatchDecision("maybe"))
	require.Error(t, err)
}

func TestListForRequest_OwnerOnly(t *testing.T) {
	t.Parallel()
	w := newWorld()
	ctx := context.Background()
	owner := uuid.NewString()

	request := w.addRequest(t, "Electronics", models.StatusApproved, owner)
	supplier := w.addSupplier(t, "Electronics", models.StatusApproved, uuid.NewString())
	_, err := w.matches.Upsert(ctx, request.ID, supplier.ID)
	require.NoError(t, err)

	matches, err := w.matchSvc.ListForRequest(ctx, request.ID, owner)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, err = w.matchSvc.ListForRequest(ctx, request.ID, uuid.NewString())
	assertCode(t, err, apperrors.CodeForbidden)
}
