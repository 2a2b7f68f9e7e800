package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for domain errors of the matching and
notification pipeline.
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound) into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidTransition is returned when a status change is attempted from an
// illegal source status. The entity is left untouched.
func ErrInvalidTransition(domain, message string) *AppError {
	return New(CodeInvalidTransition, domain, message, http.StatusConflict)
}

// ErrDatabase wraps a storage-layer failure.
func ErrDatabase(err error, domain string) *AppError {
	return Wrap(err, CodeDatabaseError, domain, "Storage operation failed", http.StatusInternalServerError)
}

// ErrAlreadyDecided is returned when a supplier responds to a match that has
// already been accepted or rejected. The first decision stands.
var ErrAlreadyDecided = New(
	CodeAlreadyDecided,
	"match",
	"This match has already been decided",
	http.StatusConflict,
)

// ErrMatchNotFound covers both a missing match row and a match that does not
// belong to any supplier of the responding user; the two are indistinguishable
// to the caller on purpose.
var ErrMatchNotFound = New(
	CodeNotFound,
	"match",
	"Match not found",
	http.StatusNotFound,
)

// ErrNotOwner is returned when a user acts on an entity another user owns.
var ErrNotOwner = New(
	CodeForbidden,
	"ownership",
	"You do not own this resource",
	http.StatusForbidden,
)

// ErrRejectionReasonRequired: rejecting a request or supplier without stating why
// is a validation error, not a transition.
var ErrRejectionReasonRequired = New(
	CodeValidationFailed,
	"lifecycle",
	"Rejection reason is required",
	http.StatusBadRequest,
)

// ErrDuplicateMatch should be unreachable given the upsert contract; observing it
// means the storage-layer unique constraint is missing or broken.
var ErrDuplicateMatch = New(
	CodeDuplicateMatch,
	"matching",
	"Duplicate match for the same request and supplier",
	http.StatusConflict,
)
