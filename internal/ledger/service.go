package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cleared-dev/dkbsync/internal/accounts"
	"github.com/cleared-dev/dkbsync/internal/gitops"
	"github.com/cleared-dev/dkbsync/internal/model"
)

// Options controls how a Store syncs.
type Options struct {
	AutoCommit bool
	Author     gitops.Author
}

// Store is a file-backed ledger for one budget. Every budget lives in its own
// directory, <data dir>/<sync id>, holding accounts/accounts.csv and one
// transactions/<account id>.csv per account.
type Store struct {
	dir      string
	syncID   string
	opts     Options
	accounts *accounts.Service
}

// Open loads the budget identified by syncID under dataDir.
func Open(dataDir, syncID string, opts Options) (*Store, error) {
	if syncID == "" {
		return nil, errors.New("empty sync id")
	}
	dir := filepath.Join(dataDir, syncID)
	accts, err := accounts.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("budget %s: %w", syncID, err)
	}
	return &Store{dir: dir, syncID: syncID, opts: opts, accounts: accts}, nil
}

// Dir returns the budget directory.
func (s *Store) Dir() string { return s.dir }

// Accounts returns the budget's account registry.
func (s *Store) Accounts() *accounts.Service { return s.accounts }

// EnsureAccount registers an account by name if it is not known yet and
// persists the account list.
func (s *Store) EnsureAccount(name, iban string) (model.LedgerAccount, error) {
	a, created := s.accounts.Ensure(name, iban)
	if !created {
		return a, nil
	}
	if err := s.accounts.Save(s.dir); err != nil {
		return model.LedgerAccount{}, err
	}
	return a, nil
}

// ResolveAccountID finds an account by case-insensitive name.
func (s *Store) ResolveAccountID(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.accounts.ResolveID(name)
}

// ImportTransactions stores txns under accountID. Records whose imported id
// is already present are left alone, or rewritten when their informational
// fields changed. Invalid records are reported, not stored.
func (s *Store) ImportTransactions(ctx context.Context, accountID string, txns []model.Transaction) (model.ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ImportResult{}, err
	}
	if !s.accounts.Exists(accountID) {
		return model.ImportResult{}, fmt.Errorf("unknown account id %s in budget %s", accountID, s.syncID)
	}

	entries, err := s.Entries(accountID)
	if err != nil {
		return model.ImportResult{}, err
	}
	byImportedID := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ImportedID != "" {
			byImportedID[e.ImportedID] = i
		}
	}

	var res model.ImportResult
	for i, txn := range txns {
		if verrs := ValidateTransaction(i, txn, accountID); len(verrs) > 0 {
			for _, ve := range verrs {
				res.Errors = append(res.Errors, ve.Detail())
			}
			continue
		}

		if idx, ok := byImportedID[txn.ImportedID]; ok {
			if entries[idx].SameContent(txn) {
				continue
			}
			entries[idx] = model.EntryFromTransaction(entries[idx].ID, txn)
			res.Updated = append(res.Updated, entries[idx].ID)
			continue
		}

		entry := model.EntryFromTransaction(uuid.NewString(), txn)
		byImportedID[txn.ImportedID] = len(entries)
		entries = append(entries, entry)
		res.Added = append(res.Added, entry.ID)
	}

	if len(res.Added) == 0 && len(res.Updated) == 0 {
		return res, nil
	}
	if err := s.writeEntries(accountID, entries); err != nil {
		return model.ImportResult{}, err
	}
	return res, nil
}

// Sync commits the budget directory when the data dir lives in a git work
// tree and auto-commit is enabled.
func (s *Store) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.opts.AutoCommit {
		return nil
	}
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if !gitops.IsRepo(s.dir) {
		return nil
	}
	changed, err := gitops.HasChanges(s.dir)
	if err != nil {
		return fmt.Errorf("sync %s: %w", s.syncID, err)
	}
	if !changed {
		return nil
	}
	if _, err := gitops.Commit(s.dir, "sync: "+s.syncID, s.opts.Author); err != nil {
		return fmt.Errorf("sync %s: %w", s.syncID, err)
	}
	return nil
}

// Entries returns the stored transactions for accountID.
func (s *Store) Entries(accountID string) ([]model.LedgerEntry, error) {
	path := s.entriesPath(accountID)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", path, err)
	}
	return entries, nil
}

func (s *Store) writeEntries(accountID string, entries []model.LedgerEntry) error {
	path := s.entriesPath(accountID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating transactions dir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating transactions file: %w", err)
	}
	if err := WriteEntries(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("writing transactions: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing transactions file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing transactions file: %w", err)
	}
	return nil
}

func (s *Store) entriesPath(accountID string) string {
	return filepath.Join(s.dir, "transactions", accountID+".csv")
}
