package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FirstName string `json:"first_name" validate:"required"`
	Content   string `json:"content" validate:"notblank"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	err := NewValidator().Validate(&sample{Content: "   "})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"first_name": "required", "content": "notblank"}, fields)
}

func TestValidatorAcceptsValid(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(&sample{FirstName: "Ann", Content: "hi"}))
}
