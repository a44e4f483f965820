package ledger

import (
	"fmt"

	"github.com/cleared-dev/dkbsync/internal/id"
	"github.com/cleared-dev/dkbsync/internal/model"
)

// ValidationError describes why a transaction cannot be stored.
type ValidationError struct {
	Index       int
	ImportedID  string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: %s", e.Index, e.ImportedID, e.Description)
}

// Detail converts e to the form reported in an ImportResult.
func (e ValidationError) Detail() model.ErrorDetail {
	return model.ErrorDetail{ImportedID: e.ImportedID, Message: e.Error()}
}

// ValidateTransaction checks a single record destined for accountID.
func ValidateTransaction(i int, txn model.Transaction, accountID string) []ValidationError {
	var errs []ValidationError
	add := func(format string, args ...any) {
		errs = append(errs, ValidationError{Index: i, ImportedID: txn.ImportedID, Description: fmt.Sprintf(format, args...)})
	}

	if !id.IsDedupID(txn.ImportedID) {
		add("imported id %q is not %d hex characters", txn.ImportedID, id.DedupLen)
	}
	if txn.AccountID != "" && txn.AccountID != accountID {
		add("belongs to account %s, not %s", txn.AccountID, accountID)
	}
	if txn.Date.IsZero() {
		add("missing date")
	}
	return errs
}
