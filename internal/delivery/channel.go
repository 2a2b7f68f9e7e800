package delivery

import (
	"context"

	"supplymatch_backend/internal/models"
)

// Notification is one delivery attempt's payload: the accept/reject affordance
// for a single match, addressed to the supplier's owning user.
type Notification struct {
	MatchID        string
	SupplierID     string
	SupplierUserID string
	Request        models.RequestSummary
}

// Channel delivers match notifications to suppliers. The chat/UI layer provides
// the production implementation; this package ships an email channel and a
// log channel for development. A returned error means the attempt failed and
// the queue will retry it.
type Channel interface {
	Deliver(ctx context.Context, notification Notification) error
}
