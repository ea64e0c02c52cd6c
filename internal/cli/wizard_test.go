package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoneyMinor(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"1200", 120000},
		{"1200.50", 120050},
		{"1200.5", 120050},
		{"0.05", 5},
		{".99", 99},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := parseMoneyMinor(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParseMoneyMinor_Rejects(t *testing.T) {
	for _, input := range []string{"abc", "12.345", "-5", "1,200"} {
		_, err := parseMoneyMinor(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2026-04-01"))
	assert.Error(t, validateDate("04/01/2026"))
	assert.Error(t, validateDate(""))

	assert.NoError(t, validateOptionalDate(""))
	assert.Error(t, validateOptionalDate("not-a-date"))
}

func TestValidateIntInputs(t *testing.T) {
	assert.NoError(t, validatePositiveInt("6"))
	assert.NoError(t, validatePositiveInt(""))
	assert.Error(t, validatePositiveInt("0"))
	assert.Error(t, validatePositiveInt("-1"))

	assert.NoError(t, validateNonNegativeInt("0"))
	assert.Error(t, validateNonNegativeInt("-1"))
}

func TestValidateMoney(t *testing.T) {
	assert.NoError(t, validateMoney("1200.50"))
	assert.NoError(t, validateMoney(""))
	assert.Error(t, validateMoney("12.345"))
}
