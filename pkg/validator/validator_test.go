package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchParams struct {
	Currency string `validate:"required,iso4217"`
	Limit    int    `validate:"gte=1,lte=100"`
	Offset   int    `validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(searchParams{Currency: "GBP", Limit: 20, Offset: 0})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(searchParams{Limit: 20})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "Currency")
	assert.Contains(t, vErr.Fields()["Currency"], "required")
}

func TestValidate_InvalidCurrency(t *testing.T) {
	err := Validate(searchParams{Currency: "POUNDS", Limit: 20})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields()["Currency"], "ISO-4217")
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate(searchParams{Currency: "GBP", Limit: 500, Offset: -1})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := vErr.Fields()
	assert.Contains(t, fields["Limit"], "less than or equal to 100")
	assert.Contains(t, fields["Offset"], "greater than or equal to 0")
}
