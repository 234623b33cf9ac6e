package dto

import (
	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain validators to gin's binding engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("role", validateRole); err != nil {
		return err
	}
	return v.RegisterValidation("inspection_result", validateInspectionResult)
}

func validateRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).IsValid()
}

func validateInspectionResult(fl validator.FieldLevel) bool {
	return domain.InspectionResult(fl.Field().String()).IsValid()
}
