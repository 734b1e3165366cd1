package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nfextract/internal/domain"
	"nfextract/internal/service"
	"nfextract/internal/validator"
)

// ExtractOutput is the JSON form of one extraction.
type ExtractOutput struct {
	Record     *domain.FiscalDocument `json:"record"`
	Validation *validator.Report      `json:"validation,omitempty"`
	Warning    string                 `json:"warning,omitempty"`
}

// ExtractOptions holds the extract command flags.
type ExtractOptions struct {
	BarcodeOut string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract one XML document",
		Long: `Extract the normalized record of one NFe, CFe or CTe XML file.

With --barcode-out the access-key barcode is written as a PNG. A barcode
failure is reported as a warning and never discards the record.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BarcodeOut, "barcode-out", "", "write the access-key barcode PNG to this path")

	return cmd
}

func runExtract(rootOpts *RootOptions, opts *ExtractOptions, path string, cmd *cobra.Command) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot read file", err)
	}

	log := newLogger(rootOpts)
	defer func() { _ = log.Sync() }()
	svc := newServices(rootOpts, log)

	input := &service.ExtractInput{FileName: filepath.Base(path), Raw: raw}
	var res *service.ExtractionResult
	if opts.BarcodeOut != "" {
		res, err = svc.extraction.ExtractWithArtifact(cmd.Context(), input)
	} else {
		res, err = svc.extraction.Extract(cmd.Context(), input)
	}
	if err != nil {
		if errorKind(err) == KindExtraction {
			return WrapExitError(ExitFailure, "extraction failed", err)
		}
		return WrapExitError(ExitCommandError, "extraction aborted", err)
	}

	output := ExtractOutput{Record: res.Record, Validation: res.Validation}
	if opts.BarcodeOut != "" {
		if res.ArtifactErr != nil {
			output.Warning = "barcode not generated: " + res.ArtifactErr.Error()
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", output.Warning)
		} else if err := os.WriteFile(opts.BarcodeOut, res.Artifact, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "cannot write barcode", err)
		}
	}

	if rootOpts.Output == "json" {
		return writeJSON(cmd.OutOrStdout(), output)
	}
	return printSummary(cmd.OutOrStdout(), input.FileName, res)
}

func printSummary(w io.Writer, name string, res *service.ExtractionResult) error {
	doc := res.Record
	key := doc.Chave
	if key == "" {
		key = "(sem chave)"
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\tnNF=%s\tvNF=%s\titens=%d", name, doc.Tipo, key, doc.Ide.NNF, doc.Total.ICMSTot.VNF, len(doc.Det))
	if err != nil {
		return err
	}
	if res.Validation != nil {
		_, err = fmt.Fprintf(w, "\tvalidation=%s", res.Validation.Status)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
