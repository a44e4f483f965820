package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupID_Stable(t *testing.T) {
	a := DedupID("2024-03-05", -1250, "Bakery", "Bread")
	b := DedupID("2024-03-05", -1250, "Bakery", "Bread")
	assert.Equal(t, a, b)
	assert.Len(t, a, DedupLen)
	assert.True(t, IsDedupID(a))
}

func TestDedupID_Sensitivity(t *testing.T) {
	base := DedupID("2024-03-05", -1250, "Bakery", "Bread")
	tests := []struct {
		name string
		got  string
	}{
		{"date", DedupID("2024-03-06", -1250, "Bakery", "Bread")},
		{"amount", DedupID("2024-03-05", 1250, "Bakery", "Bread")},
		{"payee", DedupID("2024-03-05", -1250, "Bakerz", "Bread")},
		{"notes", DedupID("2024-03-05", -1250, "Bakery", "Bread rolls")},
	}
	for _, tt := range tests {
		assert.NotEqual(t, base, tt.got, "changing %s should change the key", tt.name)
	}
}

func TestDedupID_KnownValue(t *testing.T) {
	// sha256("2024-03-05|-1250|Bakery|Bread") truncated.
	assert.Equal(t, "7ee0f6bca69ba05a0fa056182864349b", DedupID("2024-03-05", -1250, "Bakery", "Bread"))
}

func TestIsDedupID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", false},
		{"0123456789abcdef", false},
		{"0123456789abcdef0123456789abcdeg", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDedupID(tt.input), "IsDedupID(%q)", tt.input)
	}
}
