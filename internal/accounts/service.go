package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/dkbsync/internal/model"
)

// NotFoundError is returned when no account matches a requested name.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Service provides in-memory lookup over a budget's ledger accounts.
type Service struct {
	accounts []model.LedgerAccount
	byName   map[string]model.LedgerAccount
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.LedgerAccount) *Service {
	s := &Service{byName: make(map[string]model.LedgerAccount, len(accounts))}
	for _, a := range accounts {
		s.add(a)
	}
	return s
}

func (s *Service) add(a model.LedgerAccount) {
	s.accounts = append(s.accounts, a)
	s.byName[strings.ToLower(a.Name)] = a
}

// Load reads accounts/accounts.csv under budgetDir. A missing file yields an
// empty Service.
func Load(budgetDir string) (*Service, error) {
	f, err := os.Open(path(budgetDir))
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.LedgerAccount {
	return s.accounts
}

// Names returns the account names in file order.
func (s *Service) Names() []string {
	names := make([]string, len(s.accounts))
	for i, a := range s.accounts {
		names[i] = a.Name
	}
	return names
}

// ResolveID returns the id of the account whose name matches name,
// ignoring case.
func (s *Service) ResolveID(name string) (string, error) {
	a, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return "", &NotFoundError{Name: name, Available: s.Names()}
	}
	return a.ID, nil
}

// Exists reports whether an account id exists.
func (s *Service) Exists(id string) bool {
	for _, a := range s.accounts {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Ensure returns the account named name, creating it with a fresh id if
// needed. The bool reports whether it was created.
func (s *Service) Ensure(name, iban string) (model.LedgerAccount, bool) {
	if a, ok := s.byName[strings.ToLower(name)]; ok {
		return a, false
	}
	a := model.LedgerAccount{ID: uuid.NewString(), Name: name, IBAN: iban}
	s.add(a)
	return a, true
}

// Save writes the accounts to accounts/accounts.csv under budgetDir.
func (s *Service) Save(budgetDir string) error {
	p := path(budgetDir)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

func path(budgetDir string) string {
	return filepath.Join(budgetDir, "accounts", "accounts.csv")
}
