package pipeline

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/dkbsync/internal/accounts"
	"github.com/cleared-dev/dkbsync/internal/importer"
	"github.com/cleared-dev/dkbsync/internal/model"
)

type fakeLedger struct {
	accounts *accounts.Service
	seen     map[string]bool
	imported []model.Transaction
	syncs    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: accounts.NewService([]model.LedgerAccount{{ID: "giro-id", Name: "Girokonto"}}),
		seen:     map[string]bool{},
	}
}

func (f *fakeLedger) ResolveAccountID(_ context.Context, name string) (string, error) {
	return f.accounts.ResolveID(name)
}

func (f *fakeLedger) ImportTransactions(_ context.Context, _ string, txns []model.Transaction) (model.ImportResult, error) {
	var res model.ImportResult
	for _, txn := range txns {
		if f.seen[txn.ImportedID] {
			continue
		}
		f.seen[txn.ImportedID] = true
		f.imported = append(f.imported, txn)
		res.Added = append(res.Added, txn.ImportedID)
	}
	return res, nil
}

func (f *fakeLedger) Sync(context.Context) error {
	f.syncs++
	return nil
}

const ownSavings = "DE89370400440532013000"

func dkbPipeline(policy Policy) *Pipeline {
	return New(Options{
		Layout:   importer.DKBLayout(),
		OwnIBANs: importer.NewIBANSet(ownSavings),
		Policy:   policy,
	})
}

func TestTransform_EndToEnd(t *testing.T) {
	content := "meta 1\nmeta 2\nmeta 3\nmeta 4\n" +
		"Date;Amount;Payee;Notes\n" +
		"05.03.24;-12,50;Bakery;Bread\n" +
		"06.03.24;1.234,56;ACME;Salary\n"
	layout := importer.Layout{
		Name:      "simple",
		Delimiter: ';',
		SkipLines: 4,
		Columns:   importer.Columns{BookingDate: "Date", Amount: "Amount", Payer: "Payee", Recipient: "Payee", Purpose: "Notes"},
	}

	rows, err := importer.ReadRows(content, ';', 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	keys := make([]string, 0, len(rows[0].Fields))
	for k := range rows[0].Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"Amount", "Date", "Notes", "Payee"}, keys)

	p := New(Options{Layout: layout})
	res, err := p.Transform(content, "acct")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.NotEqual(t, res.Transactions[0].ImportedID, res.Transactions[1].ImportedID)
	assert.Equal(t, int64(-1250), res.Transactions[0].Amount)
	assert.Equal(t, int64(123456), res.Transactions[1].Amount)
	assert.Equal(t, "2024-03-06", res.Transactions[1].DateString())
}

func TestTransform_DKBSample(t *testing.T) {
	data, err := os.ReadFile("../../testdata/dkb_giro.csv")
	require.NoError(t, err)

	res, err := dkbPipeline(PolicyAbort).Transform(string(data), "giro-id")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 4)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.RowErrors)
	for _, txn := range res.Transactions {
		assert.Equal(t, "giro-id", txn.AccountID)
		assert.True(t, txn.Cleared)
	}
}

const badRows = "a\nb\nc\nd\n" +
	"Buchungsdatum;Betrag (€);Zahlungsempfänger*in;Verwendungszweck\n" +
	"05.03.24;-1,00;Shop;ok\n" +
	"06.03.24;abc;Shop;bad amount\n" +
	"32.03.24;-2,00;Shop;bad date\n" +
	"07.03.24;-3,00;Shop;ok too\n"

func TestTransform_AbortPolicy(t *testing.T) {
	_, err := dkbPipeline(PolicyAbort).Transform(badRows, "acct")
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 7, rowErr.Line)
	assert.ErrorIs(t, err, importer.ErrFormat)
}

func TestTransform_CollectPolicy(t *testing.T) {
	res, err := dkbPipeline(PolicyCollect).Transform(badRows, "acct")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 2)
	require.Len(t, res.RowErrors, 2)
	assert.Equal(t, 7, res.RowErrors[0].Line)
	assert.Equal(t, 8, res.RowErrors[1].Line)
	for _, re := range res.RowErrors {
		assert.ErrorIs(t, re, importer.ErrFormat)
	}
}

func TestTransform_ParseError(t *testing.T) {
	_, err := dkbPipeline(PolicyCollect).Transform("only\ntwo\n", "acct")
	assert.ErrorIs(t, err, importer.ErrParse)
}

func TestImportAccount_Idempotent(t *testing.T) {
	data, err := os.ReadFile("../../testdata/dkb_giro.csv")
	require.NoError(t, err)
	ledger := newFakeLedger()
	p := dkbPipeline(PolicyAbort)
	ctx := context.Background()

	report, err := p.ImportAccount(ctx, ledger, "girokonto", string(data))
	require.NoError(t, err)
	assert.Equal(t, "giro-id", report.AccountID)
	assert.Len(t, report.Import.Added, 4)

	report, err = p.ImportAccount(ctx, ledger, "Girokonto", string(data))
	require.NoError(t, err)
	assert.Empty(t, report.Import.Added)
	assert.Len(t, ledger.imported, 4)
	assert.Equal(t, 0, ledger.syncs)
}

func TestImportAccount_UnknownAccount(t *testing.T) {
	_, err := dkbPipeline(PolicyAbort).ImportAccount(context.Background(), newFakeLedger(), "Depot", "")
	var nf *accounts.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"Girokonto"}, nf.Available)
}

func TestImportAccount_NothingToImport(t *testing.T) {
	ledger := newFakeLedger()
	content := "a\nb\nc\nd\nBuchungsdatum;Betrag (€)\n;\n"
	report, err := dkbPipeline(PolicyAbort).ImportAccount(context.Background(), ledger, "Girokonto", content)
	require.NoError(t, err)
	assert.Empty(t, report.Transactions)
	assert.Empty(t, ledger.imported)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyAbort, "abort": PolicyAbort, "Collect": PolicyCollect} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("retry")
	assert.Error(t, err)
}
