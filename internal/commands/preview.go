package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/dkbsync/internal/importer"
	"github.com/cleared-dev/dkbsync/internal/pipeline"
)

type previewOptions struct {
	format   string
	encoding string
	ownIBANs []string
	collect  bool
}

func newPreviewCommand() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print the transactions a statement file would produce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "dkb", "statement format")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "utf-8", "file encoding (utf-8, windows-1252, iso-8859-1)")
	cmd.Flags().StringArrayVar(&opts.ownIBANs, "own-iban", nil, "IBAN of your own account (repeatable)")
	cmd.Flags().BoolVar(&opts.collect, "collect", false, "skip malformed rows instead of failing")

	return cmd
}

func runPreview(out io.Writer, path string, opts previewOptions) error {
	layout, ok := importer.DefaultRegistry().Get(opts.format)
	if !ok {
		return fmt.Errorf("unknown statement format %q", opts.format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}
	content, err := importer.Decode(data, opts.encoding)
	if err != nil {
		return err
	}

	policy := pipeline.PolicyAbort
	if opts.collect {
		policy = pipeline.PolicyCollect
	}
	p := pipeline.New(pipeline.Options{
		Layout:   layout,
		OwnIBANs: importer.NewIBANSet(opts.ownIBANs...),
		Policy:   policy,
	})
	res, err := p.Transform(content, "")
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tPAYEE\tNOTES\tIMPORTED ID")
	for _, txn := range res.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			txn.DateString(), decimal.New(txn.Amount, -2).StringFixed(2), txn.Payee, txn.Notes, txn.ImportedID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%d transactions, %d skipped\n", len(res.Transactions), res.Skipped)
	for _, re := range res.RowErrors {
		fmt.Fprintf(out, "skipped %v\n", re)
	}
	return nil
}
