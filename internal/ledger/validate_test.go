package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/dkbsync/internal/model"
)

func validTxn() model.Transaction {
	return model.Transaction{
		AccountID:  "acct",
		Date:       date(2024, 3, 5),
		Amount:     -1250,
		Payee:      "Bakery",
		ImportedID: "7ee0f6bca69ba05a0fa056182864349b",
		Cleared:    true,
	}
}

func TestValidateTransaction_Valid(t *testing.T) {
	assert.Empty(t, ValidateTransaction(0, validTxn(), "acct"))

	noAccount := validTxn()
	noAccount.AccountID = ""
	assert.Empty(t, ValidateTransaction(0, noAccount, "acct"))
}

func TestValidateTransaction_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		want   string
	}{
		{"short id", func(t *model.Transaction) { t.ImportedID = "abc" }, "not 32 hex"},
		{"wrong account", func(t *model.Transaction) { t.AccountID = "other" }, "belongs to account other"},
		{"no date", func(t *model.Transaction) { t.Date = model.Transaction{}.Date }, "missing date"},
	}
	for _, tt := range tests {
		txn := validTxn()
		tt.mutate(&txn)
		errs := ValidateTransaction(3, txn, "acct")
		if assert.Len(t, errs, 1, tt.name) {
			assert.Contains(t, errs[0].Error(), tt.want, tt.name)
			assert.Contains(t, errs[0].Error(), "transaction 3", tt.name)
			assert.Equal(t, txn.ImportedID, errs[0].Detail().ImportedID, tt.name)
		}
	}
}
