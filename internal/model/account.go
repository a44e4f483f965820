package model

// LedgerAccount is an account known to the ledger.
type LedgerAccount struct {
	ID   string
	Name string
	IBAN string
}
