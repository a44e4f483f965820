package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/dkbsync/internal/model"
)

// Header is the CSV header for a transactions file.
var Header = []string{"id", "imported_id", "date", "amount", "payee", "imported_payee", "notes", "cleared"}

const (
	numFields     = 8
	colID         = 0
	colImportedID = 1
	colDate       = 2
	colAmount     = 3
	colPayee      = 4
	colImported   = 5
	colNotes      = 6
	colCleared    = 7
)

// ReadEntries reads all entries from a transactions CSV.
func ReadEntries(r io.Reader) ([]model.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.LedgerEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries including the header.
func WriteEntries(w io.Writer, entries []model.LedgerEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an entry to a CSV row. Amounts are written in major
// units with two decimals.
func MarshalEntry(e model.LedgerEntry) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colImportedID] = e.ImportedID
	row[colDate] = e.Date.Format(model.DateFormat)
	row[colAmount] = decimal.New(e.Amount, -2).StringFixed(2)
	row[colPayee] = e.Payee
	row[colImported] = e.ImportedPayee
	row[colNotes] = e.Notes
	row[colCleared] = strconv.FormatBool(e.Cleared)
	return row
}

// UnmarshalEntry converts a CSV row to an entry.
func UnmarshalEntry(record []string) (model.LedgerEntry, error) {
	if len(record) != numFields {
		return model.LedgerEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	cleared, err := strconv.ParseBool(record[colCleared])
	if err != nil {
		return model.LedgerEntry{}, fmt.Errorf("parsing cleared %q: %w", record[colCleared], err)
	}

	return model.LedgerEntry{
		ID:            record[colID],
		ImportedID:    record[colImportedID],
		Date:          date,
		Amount:        amount.Shift(2).Round(0).IntPart(),
		Payee:         record[colPayee],
		ImportedPayee: record[colImported],
		Notes:         record[colNotes],
		Cleared:       cleared,
	}, nil
}
