package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nfextract/internal/accesskey"
	"nfextract/internal/domain"
	"nfextract/internal/port"
	"nfextract/internal/storage/s3"
	"nfextract/internal/validator"
)

// ExtractInput is the DTO for extracting one XML document.
type ExtractInput struct {
	FileName string
	Raw      []byte
}

// ExtractionResult is the record plus everything derived from it.
type ExtractionResult struct {
	Record      *domain.FiscalDocument
	Validation  *validator.Report
	Artifact    []byte
	ArtifactErr error
}

// ExtractionService defines the extraction contract shared by the HTTP layer and the CLI.
type ExtractionService interface {
	Extract(ctx context.Context, input *ExtractInput) (*ExtractionResult, error)
	ExtractWithArtifact(ctx context.Context, input *ExtractInput) (*ExtractionResult, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.FiscalDocument, error)
	List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error)
	Artifact(ctx context.Context, accessKey string) ([]byte, string, error)
}

// ExtractionDeps groups the optional collaborators. Nil repositories or
// storage switch the matching feature off.
type ExtractionDeps struct {
	DocRepo   port.DocumentRepository
	LogRepo   port.ProcessingLogRepository
	Storage   port.ObjectStorage
	Bucket    string
	Artifacts port.ArtifactGenerator
}

type extractionService struct {
	extractor port.DocumentExtractor
	engine    *validator.Engine
	deps      ExtractionDeps
	log       *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	extractor port.DocumentExtractor,
	engine *validator.Engine,
	deps ExtractionDeps,
	log *zap.Logger,
) ExtractionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &extractionService{extractor: extractor, engine: engine, deps: deps, log: log}
}

func (s *extractionService) Extract(ctx context.Context, input *ExtractInput) (*ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.extractor.Extract(input.Raw)
	if err != nil {
		s.log.Warn("extraction failed", zap.String("file", input.FileName), zap.Error(err))
		s.recordLog(ctx, domain.ProcessingStatusFailed, "", input.FileName,
			fmt.Sprintf("Falha ao processar o XML %s: %v", input.FileName, err))
		return nil, fmt.Errorf("extracting %s: %w", input.FileName, err)
	}

	result := &ExtractionResult{Record: doc}
	if s.engine != nil {
		result.Validation = s.engine.Validate(ctx, doc)
	}

	if doc.Chave == "" {
		s.recordLog(ctx, domain.ProcessingStatusWarning, "", input.FileName,
			fmt.Sprintf("XML %s processado sem chave de acesso.", input.FileName))
		return result, nil
	}

	s.persist(ctx, doc, input.FileName)
	s.archive(ctx, s3.XMLKey(doc.Chave), input.Raw, "application/xml")

	status := domain.ProcessingStatusSuccess
	msg := fmt.Sprintf("XML da chave %s processado com sucesso.", doc.Chave)
	if result.Validation != nil && result.Validation.Status == domain.ValidationStatusInvalid {
		status = domain.ProcessingStatusWarning
		msg = fmt.Sprintf("XML da chave %s processado com %d erro(s) de validação.", doc.Chave, result.Validation.Summary.Errors)
	}
	s.recordLog(ctx, status, doc.Chave, input.FileName, msg)

	s.log.Info("document extracted",
		zap.String("access_key", doc.Chave),
		zap.String("shape", string(doc.Tipo)),
		zap.Int("items", len(doc.Det)),
	)
	return result, nil
}

// ExtractWithArtifact extracts the record and then renders its artifact. An
// artifact failure is reported in ArtifactErr and never discards the record.
func (s *extractionService) ExtractWithArtifact(ctx context.Context, input *ExtractInput) (*ExtractionResult, error) {
	result, err := s.Extract(ctx, input)
	if err != nil {
		return nil, err
	}
	if s.deps.Artifacts == nil {
		return result, nil
	}

	key := result.Record.Chave
	if key == "" {
		result.ArtifactErr = &domain.ArtifactGenerationError{Artifact: "barcode", Err: domain.ErrMissingAccessKey}
		return result, nil
	}

	data, err := s.deps.Artifacts.Generate(ctx, key)
	if err != nil {
		s.log.Warn("artifact generation failed", zap.String("access_key", key), zap.Error(err))
		result.ArtifactErr = err
		return result, nil
	}
	result.Artifact = data
	s.archive(ctx, s3.BarcodeKey(key), data, s.deps.Artifacts.ContentType())
	return result, nil
}

func (s *extractionService) GetByAccessKey(ctx context.Context, accessKey string) (*domain.FiscalDocument, error) {
	if s.deps.DocRepo == nil {
		return nil, domain.ErrDatabaseDisabled
	}
	stored, err := s.deps.DocRepo.GetByAccessKey(ctx, accessKey)
	if err != nil {
		return nil, err
	}
	var doc domain.FiscalDocument
	if err := json.Unmarshal(stored.Record, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling stored record %s: %w", accessKey, err)
	}
	return &doc, nil
}

// List pages through stored records, newest first.
func (s *extractionService) List(ctx context.Context, offset, limit int) ([]domain.StoredDocument, int, error) {
	if s.deps.DocRepo == nil {
		return nil, 0, domain.ErrDatabaseDisabled
	}
	docs, total, err := s.deps.DocRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("extractionService.List: %w", err)
	}
	return docs, total, nil
}

// Artifact returns the archived artifact for a well-formed access key, rendering
// it when the archive is disabled or has no copy.
func (s *extractionService) Artifact(ctx context.Context, accessKey string) ([]byte, string, error) {
	if err := accesskey.Validate(accessKey); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidAccessKey, err)
	}
	if s.deps.Artifacts == nil {
		return nil, "", &domain.ArtifactGenerationError{Artifact: "barcode", Err: errors.New("no generator configured")}
	}
	if s.deps.Storage != nil {
		data, err := s.deps.Storage.Download(ctx, s.deps.Bucket, s3.BarcodeKey(accessKey))
		if err == nil {
			return data, s.deps.Artifacts.ContentType(), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("reading archived artifact", zap.String("access_key", accessKey), zap.Error(err))
		}
	}
	data, err := s.deps.Artifacts.Generate(ctx, accessKey)
	if err != nil {
		return nil, "", err
	}
	return data, s.deps.Artifacts.ContentType(), nil
}

func (s *extractionService) persist(ctx context.Context, doc *domain.FiscalDocument, fileName string) {
	if s.deps.DocRepo == nil {
		return
	}
	record, err := json.Marshal(doc)
	if err != nil {
		s.log.Error("marshaling record", zap.String("access_key", doc.Chave), zap.Error(err))
		return
	}
	stored := &domain.StoredDocument{
		ID:        uuid.New(),
		AccessKey: doc.Chave,
		Shape:     doc.Tipo,
		Number:    doc.Ide.NNF,
		IssuerTax: doc.Emit.CNPJ,
		Total:     doc.Total.ICMSTot.VNF.String(),
		Record:    record,
		SourceKey: fileName,
	}
	if err := s.deps.DocRepo.Upsert(ctx, stored); err != nil {
		s.log.Error("persisting record", zap.String("access_key", doc.Chave), zap.Error(err))
	}
}

func (s *extractionService) archive(ctx context.Context, key string, data []byte, contentType string) {
	if s.deps.Storage == nil {
		return
	}
	_, err := s.deps.Storage.Upload(ctx, port.UploadInput{
		Bucket:      s.deps.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		s.log.Error("archiving object", zap.String("key", key), zap.Error(err))
	}
}

// recordLog never fails the caller; a log write error is only logged.
func (s *extractionService) recordLog(ctx context.Context, status domain.ProcessingStatus, accessKey, fileName, message string) {
	if s.deps.LogRepo == nil {
		return
	}
	entry := &domain.ProcessingLog{
		ID:        uuid.New(),
		Status:    status,
		AccessKey: accessKey,
		FileName:  fileName,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deps.LogRepo.Create(ctx, entry); err != nil {
		s.log.Error("writing processing log", zap.String("file", fileName), zap.Error(err))
	}
}
