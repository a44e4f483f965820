package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name in a project directory.
const FileName = "dkbsync.yaml"

// Environment overrides, read after .env is loaded.
const (
	EnvConfig  = "DKBSYNC_CONFIG"
	EnvDataDir = "DKBSYNC_DATA_DIR"
)

// Config represents the top-level dkbsync.yaml configuration.
type Config struct {
	DataDir  string        `yaml:"data_dir"`
	Import   ImportConfig  `yaml:"import"`
	OwnIBANs []string      `yaml:"own_ibans,omitempty"`
	Accounts []AccountConf `yaml:"accounts,omitempty"`
	Git      GitConfig     `yaml:"git"`
}

// ImportConfig describes where statements come from and how to read them.
type ImportConfig struct {
	Dir        string `yaml:"dir"`
	Format     string `yaml:"format"`
	Encoding   string `yaml:"encoding"`
	OnRowError string `yaml:"on_row_error"` // "abort" or "collect"
}

// AccountConf maps a bank account to a ledger account in a budget.
type AccountConf struct {
	Name   string `yaml:"name"`
	IBAN   string `yaml:"iban"`
	SyncID string `yaml:"sync_id"`
}

// GitConfig controls committing ledger changes on sync.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Group is the set of accounts sharing one budget.
type Group struct {
	SyncID   string
	Accounts []AccountConf
}

// Load reads a dkbsync.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadEnv loads a .env file into the process environment. A missing default
// .env is not an error; an explicitly named one is.
func LoadEnv(envPath string) error {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("loading %s: %w", envPath, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Path returns the config path to use: $DKBSYNC_CONFIG if set, else flagPath.
func Path(flagPath string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return flagPath
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if d := os.Getenv(EnvDataDir); d != "" {
		c.DataDir = d
	}
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		DataDir: "ledger",
		Import: ImportConfig{
			Dir:        "import",
			Format:     "dkb",
			Encoding:   "utf-8",
			OnRowError: "abort",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "dkbsync",
			AuthorEmail: "dkbsync@localhost",
		},
	}
}

// Validate checks the account list and import settings.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	switch strings.ToLower(c.Import.OnRowError) {
	case "", "abort", "collect":
	default:
		errs = append(errs, fmt.Errorf("import.on_row_error %q must be abort or collect", c.Import.OnRowError))
	}

	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		switch {
		case strings.TrimSpace(a.Name) == "":
			errs = append(errs, fmt.Errorf("accounts[%d]: name is empty", i))
		case seen[strings.ToLower(a.Name)]:
			errs = append(errs, fmt.Errorf("accounts[%d]: duplicate name %q", i, a.Name))
		}
		seen[strings.ToLower(a.Name)] = true
		if strings.TrimSpace(a.IBAN) == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: iban is empty", i))
		}
		if strings.TrimSpace(a.SyncID) == "" {
			errs = append(errs, fmt.Errorf("accounts[%d]: sync_id is empty", i))
		}
	}
	return errors.Join(errs...)
}

// AllOwnIBANs returns own_ibans plus the IBAN of every configured account.
func (c *Config) AllOwnIBANs() []string {
	ibans := append([]string(nil), c.OwnIBANs...)
	for _, a := range c.Accounts {
		ibans = append(ibans, a.IBAN)
	}
	return ibans
}

// Groups returns the accounts grouped by sync id, in first-seen order.
func (c *Config) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, a := range c.Accounts {
		i, ok := index[a.SyncID]
		if !ok {
			i = len(groups)
			index[a.SyncID] = i
			groups = append(groups, Group{SyncID: a.SyncID})
		}
		groups[i].Accounts = append(groups[i].Accounts, a)
	}
	return groups
}
