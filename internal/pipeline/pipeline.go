// Package pipeline turns a statement export into canonical transactions and
// hands them to a ledger.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/cleared-dev/dkbsync/internal/importer"
	"github.com/cleared-dev/dkbsync/internal/model"
)

// Ledger is the system of record transactions are imported into. It owns all
// persistent dedup state.
type Ledger interface {
	ResolveAccountID(ctx context.Context, name string) (string, error)
	ImportTransactions(ctx context.Context, accountID string, txns []model.Transaction) (model.ImportResult, error)
	Sync(ctx context.Context) error
}

// Policy decides what a malformed row does to the rest of the file.
type Policy string

const (
	// PolicyAbort fails the whole file on the first bad row.
	PolicyAbort Policy = "abort"
	// PolicyCollect skips bad rows and reports them in Result.RowErrors.
	PolicyCollect Policy = "collect"
)

// ParsePolicy maps a config value to a Policy. Empty means PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyCollect:
		return PolicyCollect, nil
	default:
		return "", fmt.Errorf("unknown row error policy %q (want abort or collect)", s)
	}
}

// RowError is a row that could not be turned into a transaction.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Options configures a Pipeline.
type Options struct {
	Layout   importer.Layout
	OwnIBANs importer.IBANSet
	Policy   Policy
}

// Result is the outcome of transforming one file.
type Result struct {
	Transactions []model.Transaction
	Skipped      int // rows without amount or booking date
	RowErrors    []*RowError
}

// Report is the outcome of importing one file into a ledger account.
type Report struct {
	AccountID string
	Result
	Import model.ImportResult
}

// Pipeline runs Reader -> Assembler -> Ledger for one statement layout.
type Pipeline struct {
	layout    importer.Layout
	policy    Policy
	assembler *importer.Assembler
}

// New creates a Pipeline from opts.
func New(opts Options) *Pipeline {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyAbort
	}
	own := opts.OwnIBANs
	if own == nil {
		own = importer.NewIBANSet()
	}
	return &Pipeline{
		layout:    opts.Layout,
		policy:    policy,
		assembler: importer.NewAssembler(opts.Layout.Columns, own),
	}
}

// Transform parses content and assembles a transaction per data row, in file
// order.
func (p *Pipeline) Transform(content, accountID string) (Result, error) {
	rows, err := importer.ReadRows(content, p.layout.Delimiter, p.layout.SkipLines)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, row := range rows {
		txn, ok, err := p.assembler.Assemble(row.Fields, accountID)
		if err != nil {
			rowErr := &RowError{Line: row.Line, Err: err}
			if p.policy == PolicyAbort {
				return Result{}, rowErr
			}
			res.RowErrors = append(res.RowErrors, rowErr)
			continue
		}
		if !ok {
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

// ImportAccount resolves accountName in ledger, transforms content and
// imports the result. Sync is left to the caller, once per budget.
func (p *Pipeline) ImportAccount(ctx context.Context, ledger Ledger, accountName, content string) (Report, error) {
	accountID, err := ledger.ResolveAccountID(ctx, accountName)
	if err != nil {
		return Report{}, fmt.Errorf("resolving account: %w", err)
	}

	res, err := p.Transform(content, accountID)
	if err != nil {
		return Report{}, fmt.Errorf("account %s: %w", accountName, err)
	}

	report := Report{AccountID: accountID, Result: res}
	if len(res.Transactions) == 0 {
		return report, nil
	}

	report.Import, err = ledger.ImportTransactions(ctx, accountID, res.Transactions)
	if err != nil {
		return Report{}, fmt.Errorf("importing into %s: %w", accountName, err)
	}
	return report, nil
}
