package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nfextract/internal/csvexport"
	"nfextract/internal/domain"
	"nfextract/internal/report"
	"nfextract/internal/xlsxexport"
)

// ExportInput is the DTO for a report export. Records come from uploaded
// files, from stored access keys, or both.
type ExportInput struct {
	Files      []BatchFile
	AccessKeys []string
	Model      domain.ReportModel
	Format     domain.ExportFormat
	Options    report.Options
}

// ExportOutput is a rendered report file.
type ExportOutput struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
	Skipped     []BatchItemResult
}

// ReportService flattens records into report files.
type ReportService interface {
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
}

type reportService struct {
	batch      BatchService
	extraction ExtractionService
	log        *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService implementation.
func NewReportService(batch BatchService, extraction ExtractionService, log *zap.Logger) ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reportService{batch: batch, extraction: extraction, log: log, now: time.Now}
}

func (s *reportService) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if !domain.ValidReportModels[input.Model] {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReportModel, input.Model)
	}
	if input.Format != domain.ExportFormatCSV && input.Format != domain.ExportFormatXLSX {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownExportFormat, input.Format)
	}

	out := &ExportOutput{}
	var docs []*domain.FiscalDocument

	if len(input.Files) > 0 {
		items, err := s.batch.Process(ctx, input.Files, false)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.Err != nil {
				out.Skipped = append(out.Skipped, it)
				continue
			}
			docs = append(docs, it.Result.Record)
		}
	}
	for _, key := range input.AccessKeys {
		doc, err := s.extraction.GetByAccessKey(ctx, key)
		if err != nil {
			out.Skipped = append(out.Skipped, BatchItemResult{FileName: key, Err: err})
			continue
		}
		docs = append(docs, doc)
	}

	table, err := report.Build(input.Model, docs, input.Options)
	if err != nil {
		return nil, err
	}
	out.Rows = len(table.Rows)

	switch input.Format {
	case domain.ExportFormatXLSX:
		data, err := xlsxexport.Write(table)
		if err != nil {
			return nil, err
		}
		out.Data = data
		out.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		var buf bytes.Buffer
		if err := csvexport.NewWriter(&buf).WriteTable(table); err != nil {
			return nil, err
		}
		out.Data = buf.Bytes()
		out.ContentType = "text/csv; charset=utf-8"
	}
	out.Filename = csvexport.BuildFilename(string(input.Model), string(input.Format), s.now())

	s.log.Info("report exported",
		zap.String("model", string(input.Model)),
		zap.String("format", string(input.Format)),
		zap.Int("rows", out.Rows),
		zap.Int("skipped", len(out.Skipped)),
	)
	return out, nil
}
