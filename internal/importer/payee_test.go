package importer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testCols = DKBLayout().Columns

func payeeRow(payer, recipient, iban string) RawRow {
	return RawRow{
		testCols.Payer:     payer,
		testCols.Recipient: recipient,
		testCols.IBAN:      iban,
	}
}

func TestResolvePayee_SignFallback(t *testing.T) {
	none := NewIBANSet()
	tests := []struct {
		name      string
		row       RawRow
		amount    float64
		wantName  string
		wantShown string
	}{
		{"outgoing uses recipient", payeeRow("Me", "Shop", ""), -5, "Shop", "Shop"},
		{"outgoing falls back to payer", payeeRow("Alice", "", ""), -5, "Alice", "Alice"},
		{"incoming uses payer", payeeRow("Employer", "Me", ""), 5, "Employer", "Employer"},
		{"incoming falls back to recipient", payeeRow("", "Bob", ""), 5, "Bob", "Bob"},
		{"zero counts as incoming", payeeRow("Payer", "Recipient", ""), 0, "Payer", "Payer"},
		{"both empty", payeeRow("", "", ""), -1, "", ""},
		{"trims names", payeeRow("  Carol  ", "", ""), 3, "Carol", "Carol"},
	}
	for _, tt := range tests {
		got := ResolvePayee(tt.row, testCols, decimal.NewFromFloat(tt.amount), none)
		assert.Equal(t, tt.wantName, got.Name, tt.name)
		assert.Equal(t, tt.wantShown, got.ImportedDisplay, tt.name)
	}
}

func TestResolvePayee_Display(t *testing.T) {
	got := ResolvePayee(payeeRow("", "Shop", " DE02120300000000202051 "), testCols, decimal.NewFromInt(-1), NewIBANSet())
	assert.Equal(t, "Shop", got.Name)
	assert.Equal(t, "Shop (DE02120300000000202051)", got.ImportedDisplay)
}

func TestResolvePayee_DisplayWithoutName(t *testing.T) {
	got := ResolvePayee(payeeRow("", "", "DE02120300000000202051"), testCols, decimal.NewFromInt(-1), NewIBANSet())
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "(DE02120300000000202051)", got.ImportedDisplay)
}

func TestResolvePayee_OwnIBANMasking(t *testing.T) {
	own := NewIBANSet("DE89370400440532013000")
	for _, amount := range []int64{-500, 500} {
		got := ResolvePayee(payeeRow("Max Mustermann", "Max M.", "de89370400440532013000"), testCols, decimal.NewFromInt(amount), own)
		assert.Equal(t, "DE89370400440532013000", got.Name)
		assert.Equal(t, "DE89370400440532013000 (de89370400440532013000)", got.ImportedDisplay)
	}
}

func TestIBANSet(t *testing.T) {
	set := NewIBANSet("DE89 3704 0044 0532 0130 00", "", "  ")
	assert.Len(t, set, 1)
	assert.True(t, set.Contains("DE89370400440532013000"))
	assert.True(t, set.Contains("de89 3704 0044 0532 0130 00"))
	assert.False(t, set.Contains("DE02120300000000202051"))
	assert.False(t, set.Contains(""))
}
