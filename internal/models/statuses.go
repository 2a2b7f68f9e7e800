package models

type UserRole string
type ModerationStatus string
type MatchStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	// Requests and suppliers share one moderation vocabulary.
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"

	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// MatchDecision is the supplier's answer to a match notification.
type MatchDecision string

const (
	DecisionAccept MatchDecision = "accept"
	DecisionReject MatchDecision = "reject"
)

// Status returns the match status a decision transitions to.
func (d MatchDecision) Status() MatchStatus {
	if d == DecisionAccept {
		return MatchStatusAccepted
	}
	return MatchStatusRejected
}

// Valid reports whether the decision is one of the two allowed values.
func (d MatchDecision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject
}
