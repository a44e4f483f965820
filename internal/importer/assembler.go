package importer

import (
	"strings"

	"github.com/cleared-dev/dkbsync/internal/id"
	"github.com/cleared-dev/dkbsync/internal/model"
)

// Assembler turns statement rows into canonical transactions.
type Assembler struct {
	cols Columns
	own  IBANSet
}

// NewAssembler creates an Assembler reading cols and masking transfers
// between the IBANs in own.
func NewAssembler(cols Columns, own IBANSet) *Assembler {
	return &Assembler{cols: cols, own: own}
}

// Assemble builds a transaction from row. The boolean is false when the row
// has no amount or booking date (summary lines); that is not an error.
func (a *Assembler) Assemble(row RawRow, accountID string) (model.Transaction, bool, error) {
	rawAmount := strings.TrimSpace(row[a.cols.Amount])
	rawDate := strings.TrimSpace(row[a.cols.BookingDate])
	if rawAmount == "" || rawDate == "" {
		return model.Transaction{}, false, nil
	}

	amount, err := ParseDecimal(rawAmount)
	if err != nil {
		return model.Transaction{}, false, err
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return model.Transaction{}, false, err
	}

	minor, err := ToMinorUnits(amount)
	if err != nil {
		return model.Transaction{}, false, err
	}
	payee := ResolvePayee(row, a.cols, amount, a.own)
	notes := row[a.cols.Purpose]
	dateStr := date.Format(model.DateFormat)

	return model.Transaction{
		AccountID:     accountID,
		Date:          date,
		Amount:        minor,
		Payee:         payee.Name,
		ImportedPayee: payee.ImportedDisplay,
		Notes:         notes,
		ImportedID:    id.DedupID(dateStr, minor, payee.Name, notes), // customer reference excluded
		Cleared:       true,
	}, true, nil
}
