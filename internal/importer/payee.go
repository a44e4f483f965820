package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IBANSet holds the user's own account IBANs. Lookups ignore case and spaces.
type IBANSet map[string]struct{}

// NewIBANSet builds a set from a list of IBANs; blank entries are ignored.
func NewIBANSet(ibans ...string) IBANSet {
	set := make(IBANSet, len(ibans))
	for _, iban := range ibans {
		if key := normalizeIBAN(iban); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Contains reports whether iban belongs to the set.
func (s IBANSet) Contains(iban string) bool {
	key := normalizeIBAN(iban)
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}

// Payee is the resolved counterparty of a transaction.
type Payee struct {
	Name            string
	ImportedDisplay string
}

// ResolvePayee picks the counterparty name for a row. Transfers to or from one
// of the user's own IBANs are labelled with that IBAN. Otherwise outgoing
// amounts prefer the recipient and incoming amounts prefer the payer.
func ResolvePayee(row RawRow, cols Columns, amount decimal.Decimal, own IBANSet) Payee {
	iban := strings.TrimSpace(row[cols.IBAN])
	payer := strings.TrimSpace(row[cols.Payer])
	recipient := strings.TrimSpace(row[cols.Recipient])

	var name string
	switch {
	case iban != "" && own.Contains(iban):
		name = strings.ToUpper(iban)
	case amount.IsNegative():
		name = firstNonEmpty(recipient, payer)
	default:
		name = firstNonEmpty(payer, recipient)
	}

	display := name
	if iban != "" {
		display = strings.TrimSpace(name + " (" + iban + ")")
	}
	return Payee{Name: name, ImportedDisplay: display}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
