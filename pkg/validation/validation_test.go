package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
)

type payload struct {
	Email string `json:"email" validate:"required,email"`
	Color string `json:"color" validate:"omitempty,color"`
}

func TestStructReturnsFieldErrors(t *testing.T) {
	v := New()
	v.RegisterRule("color", "{0} must be red or blue", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "red" || fl.Field().String() == "blue"
	})

	err := v.Struct(payload{Color: "green"}, "invalid payload")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "invalid payload", appErr.Message)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "email", appErr.Fields[0].Field)
	assert.Equal(t, "email is required", appErr.Fields[0].Message)
	assert.Equal(t, "color must be red or blue", appErr.Fields[1].Message)
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, New().Struct(payload{Email: "a@b.co"}, "invalid"))
}
