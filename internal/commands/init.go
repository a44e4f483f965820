package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/dkbsync/internal/config"
	"github.com/cleared-dev/dkbsync/internal/gitops"
	"github.com/cleared-dev/dkbsync/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var accountSpecs []string
	var ownIBANs []string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new dkbsync project",
		Long: "Creates dkbsync.yaml, the import directory and one ledger budget per sync id.\n" +
			"Accounts are given as NAME:IBAN:SYNC_ID.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			accts, err := parseAccountSpecs(accountSpecs)
			if err != nil {
				return err
			}
			return runInit(cmd.OutOrStdout(), absDir, accts, ownIBANs, !noGit)
		},
	}

	cmd.Flags().StringArrayVar(&accountSpecs, "account", nil, "account as NAME:IBAN:SYNC_ID (repeatable)")
	cmd.Flags().StringArrayVar(&ownIBANs, "own-iban", nil, "extra IBAN of your own, e.g. a savings account at another bank (repeatable)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func parseAccountSpecs(specs []string) ([]config.AccountConf, error) {
	accts := make([]config.AccountConf, 0, len(specs))
	for _, s := range specs {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("account %q: want NAME:IBAN:SYNC_ID", s)
		}
		accts = append(accts, config.AccountConf{
			Name:   strings.TrimSpace(parts[0]),
			IBAN:   strings.TrimSpace(parts[1]),
			SyncID: strings.TrimSpace(parts[2]),
		})
	}
	return accts, nil
}

func runInit(out io.Writer, dir string, accts []config.AccountConf, ownIBANs []string, useGit bool) error {
	cfg := config.Default()
	cfg.Accounts = accts
	cfg.OwnIBANs = ownIBANs
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid accounts: %w", err)
	}

	dirs := []string{
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "logs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	dataDir := filepath.Join(dir, cfg.DataDir)
	for _, g := range cfg.Groups() {
		store, err := ledger.Open(dataDir, g.SyncID, ledger.Options{})
		if err != nil {
			return err
		}
		for _, a := range g.Accounts {
			if _, err := store.EnsureAccount(a.Name, a.IBAN); err != nil {
				return fmt.Errorf("creating account %s: %w", a.Name, err)
			}
		}
	}

	// Statements carry account numbers and are never committed.
	gitignore := cfg.Import.Dir + "/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized dkbsync project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(dir, "init: dkbsync project", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized dkbsync project at %s (%s)\n", dir, hash)
	return nil
}
