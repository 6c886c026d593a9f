package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/splitkaro/splitkaro/internal/core/domain"
)

// splitPolicyValidator accepts only the closed set of split policies.
func splitPolicyValidator(fl validator.FieldLevel) bool {
	return domain.SplitPolicy(fl.Field().String()).IsValid()
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("splitpolicy", splitPolicyValidator)
	}
}
