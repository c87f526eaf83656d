package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/notevault/notevault-server/internal/errors"
	"github.com/notevault/notevault-server/internal/validation"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidate_Success(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correcthorse",
		Color:    "#6C63FF",
	})
	require.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	// Field names come from JSON tags, not Go field names.
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Equal(t, "must be a valid email address", details["email"])
}

func TestValidate_HexColor(t *testing.T) {
	v := validation.New()

	err := v.Validate(signupRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correcthorse",
		Color:    "purple",
	})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "must be a valid hex color", details["color"])
}
