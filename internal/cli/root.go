package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nfextract/internal/barcode"
	"nfextract/internal/extractor"
	"nfextract/internal/service"
	"nfextract/internal/validator"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Output      string // "json" | "text"
	Concurrency int
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json"}

// NewRootCommand creates the root command for the nfe CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nfe",
		Short: "Extract normalized records from NFe, CFe and CTe XML",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.Concurrency, "concurrency", 8, "files processed in parallel")

	cmd.AddCommand(NewExtractCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func isValidOutput(output string) bool {
	for _, o := range ValidOutputs {
		if o == output {
			return true
		}
	}
	return false
}

// newLogger writes diagnostics to stderr so stdout stays parseable.
func newLogger(opts *RootOptions) *zap.Logger {
	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeCaller = nil
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// services is the local pipeline: no database and no archive.
type services struct {
	extraction service.ExtractionService
	batch      service.BatchService
	reports    service.ReportService
}

func newServices(opts *RootOptions, log *zap.Logger) *services {
	engine := validator.NewEngine(validator.NewDefaultRegistry(), log)
	extraction := service.NewExtractionService(extractor.New(), engine, service.ExtractionDeps{
		Artifacts: barcode.NewGenerator(0, 0),
	}, log)
	batch := service.NewBatchService(extraction, service.BatchLimits{Concurrency: opts.Concurrency}, log)
	return &services{
		extraction: extraction,
		batch:      batch,
		reports:    service.NewReportService(batch, extraction, log),
	}
}

// readXMLDir loads every .xml file directly under dir, in name order.
func readXMLDir(dir string) ([]service.BatchFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read directory", err)
	}
	var files []service.BatchFile
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "cannot read file", err)
		}
		files = append(files, service.BatchFile{Name: e.Name(), Raw: raw})
	}
	if len(files) == 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("no .xml files in %s", dir))
	}
	return files, nil
}
