// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"civicbudget/internal/models"
	"civicbudget/internal/phase"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v. The seed loader uses this
// with its own validator instance.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("feasibility", validateFeasibility)
	_ = v.RegisterValidation("phase_kind", validatePhaseKind)
	_ = v.RegisterValidation("slug", validateSlug)
}

func validateFeasibility(fl validator.FieldLevel) bool {
	switch models.Feasibility(fl.Field().String()) {
	case models.FeasibilityUndecided, models.FeasibilityFeasible, models.FeasibilityUnfeasible:
		return true
	}
	return false
}

func validatePhaseKind(fl validator.FieldLevel) bool {
	return phase.Valid(phase.Kind(fl.Field().String()))
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}
