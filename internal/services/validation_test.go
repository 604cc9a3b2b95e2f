package services

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type actionRequest struct {
	Action string `validate:"required,oneof=process_payment withdraw"`
	Phone  string `validate:"omitempty,min=10"`
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid request", func(t *testing.T) {
		err := vh.ValidateStruct(&actionRequest{Action: "withdraw", Phone: "+79001234567"})
		assert.NoError(t, err)
	})

	t.Run("action outside the allowed set", func(t *testing.T) {
		err := vh.ValidateStruct(&actionRequest{Action: "transfer"})
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Action", validationErrors[0].Field())
		assert.Equal(t, "oneof", validationErrors[0].Tag())
	})

	t.Run("missing action", func(t *testing.T) {
		err := vh.ValidateStruct(&actionRequest{})
		assert.Error(t, err)
	})
}

func TestNewValidationHelper(t *testing.T) {
	vh := NewValidationHelper()
	assert.NotNil(t, vh)
	assert.NotNil(t, vh.validator)
}
