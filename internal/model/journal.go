package model

import "time"

// LedgerEntry is a transaction as stored by the local ledger.
type LedgerEntry struct {
	ID            string
	ImportedID    string
	Date          time.Time
	Amount        int64
	Payee         string
	ImportedPayee string
	Notes         string
	Cleared       bool
}

// EntryFromTransaction builds a stored entry for txn under the given ledger id.
func EntryFromTransaction(entryID string, txn Transaction) LedgerEntry {
	return LedgerEntry{
		ID:            entryID,
		ImportedID:    txn.ImportedID,
		Date:          txn.Date,
		Amount:        txn.Amount,
		Payee:         txn.Payee,
		ImportedPayee: txn.ImportedPayee,
		Notes:         txn.Notes,
		Cleared:       txn.Cleared,
	}
}

// SameContent reports whether e already carries every field of txn.
func (e LedgerEntry) SameContent(txn Transaction) bool {
	return e.ImportedID == txn.ImportedID &&
		e.Date.Equal(txn.Date) &&
		e.Amount == txn.Amount &&
		e.Payee == txn.Payee &&
		e.ImportedPayee == txn.ImportedPayee &&
		e.Notes == txn.Notes &&
		e.Cleared == txn.Cleared
}
