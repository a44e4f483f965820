package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/dkbsync/internal/config"
	"github.com/cleared-dev/dkbsync/internal/gitops"
	"github.com/cleared-dev/dkbsync/internal/importer"
	"github.com/cleared-dev/dkbsync/internal/importlog"
	"github.com/cleared-dev/dkbsync/internal/ledger"
	"github.com/cleared-dev/dkbsync/internal/pipeline"
)

type importOptions struct {
	configPath string
	envPath    string
	account    string
	dryRun     bool
	archive    bool
}

func newImportCommand(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the latest statement of every configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(opts.envPath); err != nil {
				return err
			}
			opts.configPath = config.Path(opts.configPath)
			return runImport(cmd.Context(), cmd.OutOrStdout(), logger(cmd), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.FileName, "config file (env "+config.EnvConfig+")")
	cmd.Flags().StringVar(&opts.envPath, "env", "", "load environment from this file instead of ./.env")
	cmd.Flags().StringVar(&opts.account, "account", "", "only import this account")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse statements and print counts without touching the ledger")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move imported statements to the processed directory")

	return cmd
}

// importRun carries the state of one import across all budget groups.
type importRun struct {
	cfg       *config.Config
	opts      importOptions
	dataDir   string
	importDir string
	pipe      *pipeline.Pipeline
	out       io.Writer
	log       *slog.Logger
	runID     string
	entries   []importlog.Entry
	failed    int
	syncErrs  []error
}

func runImport(ctx context.Context, out io.Writer, log *slog.Logger, opts importOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	layout, ok := importer.DefaultRegistry().Get(cfg.Import.Format)
	if !ok {
		return fmt.Errorf("unknown statement format %q", cfg.Import.Format)
	}
	policy, err := pipeline.ParsePolicy(cfg.Import.OnRowError)
	if err != nil {
		return err
	}

	base := filepath.Dir(opts.configPath)
	run := &importRun{
		cfg:       cfg,
		opts:      opts,
		dataDir:   resolvePath(base, cfg.DataDir),
		importDir: resolvePath(base, cfg.Import.Dir),
		pipe: pipeline.New(pipeline.Options{
			Layout:   layout,
			OwnIBANs: importer.NewIBANSet(cfg.AllOwnIBANs()...),
			Policy:   policy,
		}),
		out:   out,
		runID: uuid.NewString(),
	}
	run.log = log.With(slog.String("run_id", run.runID))

	total := 0
	for _, g := range cfg.Groups() {
		total += run.group(ctx, g)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if opts.account != "" && total == 0 {
		return fmt.Errorf("account %q is not configured", opts.account)
	}

	if !opts.dryRun && len(run.entries) > 0 {
		if err := importlog.Append(run.dataDir, run.entries); err != nil {
			return err
		}
	}
	var errs []error
	if run.failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d accounts failed", run.failed, total))
	}
	return errors.Join(append(errs, run.syncErrs...)...)
}

// group imports every selected account of a budget and syncs it once.
// Returns the number of accounts attempted.
func (r *importRun) group(ctx context.Context, g config.Group) int {
	log := r.log.With(slog.String("sync_id", g.SyncID))

	var accts []config.AccountConf
	for _, a := range g.Accounts {
		if r.opts.account == "" || strings.EqualFold(a.Name, r.opts.account) {
			accts = append(accts, a)
		}
	}
	if len(accts) == 0 {
		return 0
	}

	var store *ledger.Store
	if !r.opts.dryRun {
		var err error
		store, err = ledger.Open(r.dataDir, g.SyncID, ledger.Options{
			AutoCommit: r.cfg.Git.AutoCommit,
			Author:     gitops.Author{Name: r.cfg.Git.AuthorName, Email: r.cfg.Git.AuthorEmail},
		})
		if err != nil {
			log.Error("opening budget", slog.Any("error", err))
			for _, a := range accts {
				r.record(g.SyncID, a.Name, "", importlog.Entry{Status: importlog.StatusFailed, Message: err.Error()})
			}
			return len(accts)
		}
	}

	for _, a := range accts {
		if ctx.Err() != nil {
			return len(accts)
		}
		r.account(ctx, log, store, g.SyncID, a)
	}

	if store != nil {
		if err := store.Sync(ctx); err != nil {
			log.Error("sync failed", slog.Any("error", err))
			r.syncErrs = append(r.syncErrs, err)
		} else {
			log.Debug("synced")
		}
	}
	return len(accts)
}

func (r *importRun) account(ctx context.Context, log *slog.Logger, store *ledger.Store, syncID string, a config.AccountConf) {
	log = log.With(slog.String("account", a.Name))

	file, content, err := r.readStatement(a)
	if err != nil {
		log.Error("reading statement", slog.Any("error", err))
		r.record(syncID, a.Name, file, importlog.Entry{Status: importlog.StatusFailed, Message: err.Error()})
		return
	}
	log = log.With(slog.String("file", file))

	if r.opts.dryRun {
		res, err := r.pipe.Transform(content, a.Name)
		if err != nil {
			log.Error("transform failed", slog.Any("error", err))
			r.record(syncID, a.Name, file, importlog.Entry{Status: importlog.StatusFailed, Message: err.Error()})
			return
		}
		fmt.Fprintf(r.out, "%s/%s: %d transactions, %d skipped, %d row errors (dry run)\n",
			syncID, a.Name, len(res.Transactions), res.Skipped, len(res.RowErrors))
		r.record(syncID, a.Name, file, importlog.Entry{Status: importlog.StatusDryRun, Skipped: res.Skipped, Errors: len(res.RowErrors)})
		return
	}

	report, err := r.pipe.ImportAccount(ctx, store, a.Name, content)
	if err != nil {
		log.Error("import failed", slog.Any("error", err))
		r.record(syncID, a.Name, file, importlog.Entry{Status: importlog.StatusFailed, Message: err.Error()})
		return
	}

	for _, re := range report.RowErrors {
		log.Warn("row skipped", slog.Int("line", re.Line), slog.Any("error", re.Err))
	}
	for _, d := range report.Import.Errors {
		log.Warn("ledger rejected transaction", slog.String("imported_id", d.ImportedID), slog.String("message", d.Message))
	}

	errCount := len(report.RowErrors) + len(report.Import.Errors)
	fmt.Fprintf(r.out, "%s/%s: %d added, %d updated, %d skipped, %d errors\n",
		syncID, a.Name, len(report.Import.Added), len(report.Import.Updated), report.Skipped, errCount)
	r.record(syncID, a.Name, file, importlog.Entry{
		Status:  importlog.StatusOK,
		Added:   len(report.Import.Added),
		Updated: len(report.Import.Updated),
		Skipped: report.Skipped,
		Errors:  errCount,
	})

	if r.opts.archive {
		if err := importer.MarkProcessed(r.importDir, file); err != nil {
			log.Warn("archiving statement", slog.Any("error", err))
		}
	}
}

func (r *importRun) readStatement(a config.AccountConf) (string, string, error) {
	fi, err := importer.FindLatest(r.importDir, a.IBAN)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fi.Path)
	if err != nil {
		return fi.Name, "", fmt.Errorf("reading %s: %w", fi.Name, err)
	}
	content, err := importer.Decode(data, r.cfg.Import.Encoding)
	if err != nil {
		return fi.Name, "", err
	}
	return fi.Name, content, nil
}

func (r *importRun) record(syncID, account, file string, e importlog.Entry) {
	if e.Status == importlog.StatusFailed {
		r.failed++
	}
	e.Timestamp = time.Now().UTC()
	e.RunID = r.runID
	e.SyncID = syncID
	e.Account = account
	e.File = file
	r.entries = append(r.entries, e)
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
