package handler

import (
	"errors"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom tags used in request structs to gin's
// validator engine. Call it once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return common.IsHTTPURL(fl.Field().String())
	})
}
