package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string   `json:"email" validate:"required,email"`
	Name  string   `json:"name" validate:"min=2"`
	Dec   *float64 `json:"dec" validate:"omitempty,gte=-90,lte=90"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&sample{Email: "not-an-email", Name: "x"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "name")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
}

func TestValidate_OmitemptyPointer(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sample{Email: "user@test.com", Name: "ok"}))

	bad := 95.0
	err := v.Validate(&sample{Email: "user@test.com", Name: "ok", Dec: &bad})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Contains(t, vErr.Errors, "dec")
}
