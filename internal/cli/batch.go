package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// BatchItem is one line of the batch JSON output.
type BatchItem struct {
	File      string `json:"file"`
	AccessKey string `json:"access_key,omitempty"`
	Status    string `json:"validation,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract every XML file in a directory",
		Long: `Extract every .xml file directly under <dir>.

One failing file never stops the others; the command exits non-zero when
any file failed and reports every failure.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(rootOpts, args[0], cmd)
		},
	}
}

func runBatch(rootOpts *RootOptions, dir string, cmd *cobra.Command) error {
	files, err := readXMLDir(dir)
	if err != nil {
		return err
	}

	log := newLogger(rootOpts)
	defer func() { _ = log.Sync() }()
	svc := newServices(rootOpts, log)

	results, err := svc.batch.Process(cmd.Context(), files, false)
	if err != nil {
		return WrapExitError(ExitCommandError, "batch failed", err)
	}

	var (
		errs  error
		items = make([]BatchItem, 0, len(results))
	)
	for _, r := range results {
		item := BatchItem{File: r.FileName}
		if r.Err != nil {
			item.Error = r.Err.Error()
			item.ErrorKind = errorKind(r.Err)
			errs = multierr.Append(errs, r.Err)
		} else {
			item.AccessKey = r.Result.Record.Chave
			if r.Result.Validation != nil {
				item.Status = string(r.Result.Validation.Status)
			}
		}
		items = append(items, item)
	}

	out := cmd.OutOrStdout()
	if rootOpts.Output == "json" {
		if err := writeJSON(out, items); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "ERR\t%s\t%s\t%s\n", items[i].File, items[i].ErrorKind, items[i].Error)
				continue
			}
			fmt.Fprint(out, "OK\t")
			if err := printSummary(out, r.FileName, r.Result); err != nil {
				return err
			}
		}
	}

	if failed := len(multierr.Errors(errs)); failed > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d files failed", failed, len(results)), errs)
	}
	return nil
}
