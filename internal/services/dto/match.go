package dto

import "supplymatch_backend/internal/models"

type RespondRequest struct {
	Decision models.MatchDecision `json:"decision" validate:"required,oneof=accept reject"`
}

// MatchDecisionResponse confirms a supplier's decision. Contact is only set
// when the decision was accept; revealing it is the one-time side effect of
// acceptance.
type MatchDecisionResponse struct {
	MatchID string              `json:"match_id"`
	Status  models.MatchStatus  `json:"status"`
	Contact *models.ContactInfo `json:"contact,omitempty"`
}
