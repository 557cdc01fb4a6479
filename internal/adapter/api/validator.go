package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts validator/v10 to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors under their JSON names and adds a
// "notblank" tag that rejects whitespace-only strings.
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
