package model

import "time"

// DateFormat is the canonical ISO-8601 date layout used on every record.
const DateFormat = "2006-01-02"

// Transaction is a canonical record ready for import into a ledger.
type Transaction struct {
	AccountID     string
	Date          time.Time
	Amount        int64 // minor units, negative = outgoing
	Payee         string
	ImportedPayee string // informational, not part of ImportedID
	Notes         string
	ImportedID    string // 32 hex chars, see id.DedupID
	Cleared       bool
}

// DateString returns the date as yyyy-mm-dd.
func (t Transaction) DateString() string {
	return t.Date.Format(DateFormat)
}

// ErrorDetail describes a record the ledger refused.
type ErrorDetail struct {
	ImportedID string
	Message    string
}

// ImportResult reports what a ledger did with a batch of transactions.
type ImportResult struct {
	Added   []string
	Updated []string
	Errors  []ErrorDetail
}
