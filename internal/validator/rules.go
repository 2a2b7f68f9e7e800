package validator

import (
	"log"

	"supplymatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers domain validation tags on the validator
// instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-moderation-status': pending/approved/rejected
	mustRegister("is-moderation-status", validateModerationStatus)

	// 'is-match-decision': accept/reject
	mustRegister("is-match-decision", validateMatchDecision)
}

func validateModerationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // emptiness is 'required''s job
	}
	switch models.ModerationStatus(value) {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}

func validateMatchDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.MatchDecision(value).Valid()
}
