package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin agent"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Email: "a@example.com",
		Role:  "agent",
		Color: "#FF8800",
	})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{Email: "not-an-email", Role: "owner"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)

	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "role")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Must be one of: admin, agent", vErr.Errors["role"])
}

func TestValidate_HexColor(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Email: "a@example.com",
		Role:  "agent",
		Color: "red",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a hex color value", vErr.Errors["color"])
}
