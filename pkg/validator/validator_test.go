package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name   string  `validate:"required"`
	Status string  `validate:"omitempty,oneof=draft published archived"`
	Rating float64 `validate:"gte=0.5,lte=5"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Name: "Wireless Mouse", Status: "published", Rating: 4.5}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Rating: 3}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_OneOf(t *testing.T) {
	s := testStruct{Name: "Mouse", Status: "deleted", Rating: 3}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Status")
	assert.Contains(t, fields["Status"], "draft published archived")
}

func TestValidate_OutOfRange(t *testing.T) {
	s := testStruct{Name: "Mouse", Rating: 6}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Rating")
	assert.Contains(t, fields["Rating"], "5")
}

func TestValidationError_ErrorString(t *testing.T) {
	s := testStruct{Rating: 6}
	err := Validate(s)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Name")
	assert.Contains(t, msg, "Rating")
	assert.Contains(t, msg, "; ")
}
