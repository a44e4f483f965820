package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/dkbsync/internal/model"
)

// Header is the CSV header for accounts.csv.
var Header = []string{"id", "name", "iban"}

const (
	numFields = 3
	colID     = 0
	colName   = 1
	colIBAN   = 2
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.LedgerAccount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var accounts []model.LedgerAccount
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv including the header.
func WriteAccounts(w io.Writer, accounts []model.LedgerAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts a LedgerAccount to a CSV row.
func MarshalAccount(acct model.LedgerAccount) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colIBAN] = acct.IBAN
	return row
}

// UnmarshalAccount converts a CSV row to a LedgerAccount.
func UnmarshalAccount(record []string) (model.LedgerAccount, error) {
	if len(record) != numFields {
		return model.LedgerAccount{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.LedgerAccount{}, fmt.Errorf("empty id for account %q", record[colName])
	}
	return model.LedgerAccount{
		ID:   record[colID],
		Name: record[colName],
		IBAN: record[colIBAN],
	}, nil
}
