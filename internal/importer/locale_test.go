package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/dkbsync/internal/model"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.234,56", "1234.56"},
		{"-12,50", "-12.5"},
		{"-12,5", "-12.5"},
		{"0,01", "0.01"},
		{"1.000.000", "1000000"},
		{" 7,00 ", "7"},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "ParseDecimal(%q) = %s", tt.input, got)
	}
}

func TestParseDecimal_Errors(t *testing.T) {
	for _, input := range []string{"", "abc", "1,2,3", "12 €", "--1"} {
		_, err := ParseDecimal(input)
		assert.ErrorIs(t, err, ErrFormat, "input: %q", input)
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"-12.50", -1250},
		{"1234.56", 123456},
		{"0.005", 1},
		{"-0.005", -1},
		{"0.004", 0},
		{"19.99", 1999},
	}
	for _, tt := range tests {
		got, err := ToMinorUnits(decimal.RequireFromString(tt.input))
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got, "ToMinorUnits(%s)", tt.input)
	}
}

func TestToMinorUnits_Range(t *testing.T) {
	got, err := ToMinorUnits(decimal.RequireFromString("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), got)

	got, err = ToMinorUnits(decimal.RequireFromString("-92233720368547758.08"))
	require.NoError(t, err)
	assert.Equal(t, int64(-9223372036854775808), got)

	for _, input := range []string{"92233720368547758.08", "-92233720368547758.09", "100000000000000000"} {
		_, err := ToMinorUnits(decimal.RequireFromString(input))
		assert.ErrorIs(t, err, ErrFormat, "input: %s", input)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"05.03.24", "2024-03-05"},
		{"05.03.2024", "2024-03-05"},
		{"5.3.24", "2024-03-05"},
		{"31.12.99", "2099-12-31"},
		{"29.02.2024", "2024-02-29"},
		{"31.12.9999", "9999-12-31"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got.Format(model.DateFormat))
	}
}

func TestParseDate_Errors(t *testing.T) {
	for _, input := range []string{"bad", "", "05.03", "05.03.24.1", "aa.03.24", "31.02.24", "05.13.24", "2024-03-05", "01.01.12345"} {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrFormat, "input: %q", input)
	}
}
