package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeForErrorsIs(t *testing.T) {
	err := Clone(ErrDiscussionClosed, "cannot reply")
	assert.True(t, errors.Is(err, ErrDiscussionClosed))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "cannot reply", err.Message)
	assert.Equal(t, "discussion is closed", ErrDiscussionClosed.Message)
}

func TestFromErrorHidesUnknownErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("pq: relation users does not exist"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("invalid payload", []FieldError{{Field: "email", Message: "email is required"}})
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Len(t, err.Fields, 1)
	assert.Nil(t, ErrValidation.Fields)
}
