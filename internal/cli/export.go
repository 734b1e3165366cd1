package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"nfextract/internal/domain"
	"nfextract/internal/report"
	"nfextract/internal/service"
)

// ExportOptions holds the export command flags.
type ExportOptions struct {
	Format  string
	Model   string
	Columns []string
	Search  string
	OutDir  string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export the XML files of a directory as a CSV or XLSX report",
		Long: `Flatten every .xml file directly under <dir> into a report.

Models: parties (one row per document), products and icms (one row per
item). Files that fail extraction are skipped and listed on stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "csv", "report file format (csv|xlsx)")
	cmd.Flags().StringVar(&opts.Model, "model", "parties", "report model (parties|products|icms)")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "column keys; model defaults when empty")
	cmd.Flags().StringVar(&opts.Search, "search", "", "keep rows containing this text")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "directory for the report file")

	return cmd
}

func runExport(rootOpts *RootOptions, opts *ExportOptions, dir string, cmd *cobra.Command) error {
	files, err := readXMLDir(dir)
	if err != nil {
		return err
	}

	log := newLogger(rootOpts)
	defer func() { _ = log.Sync() }()
	svc := newServices(rootOpts, log)

	out, err := svc.reports.Export(cmd.Context(), &service.ExportInput{
		Files:   files,
		Model:   domain.ReportModel(opts.Model),
		Format:  domain.ExportFormat(strings.ToLower(opts.Format)),
		Options: report.Options{Columns: opts.Columns, Search: opts.Search},
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	for _, s := range out.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", s.FileName, s.Err)
	}

	path := filepath.Join(opts.OutDir, out.Filename)
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "cannot write report", err)
	}

	if rootOpts.Output == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":    path,
			"rows":    out.Rows,
			"skipped": len(out.Skipped),
		})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\t%d skipped\n", path, out.Rows, len(out.Skipped))
	return err
}
