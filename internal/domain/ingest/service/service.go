// Package service provides the ingest orchestration logic: charset
// normalization, decode, validation, persistence and event publishing.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/detect"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/engine"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
	"github.com/FACorreiaa/cnab-engine/internal/domain/ingest/repository"
	"github.com/FACorreiaa/cnab-engine/internal/events"
	"github.com/FACorreiaa/cnab-engine/pkg/observability"
)

// ProcessResult is the outcome of one upload: the stored file record, the
// detection metadata and the full validation report.
type ProcessResult struct {
	File      *repository.ProcessedFile `json:"file"`
	Detection *detect.Result            `json:"detection"`
	Report    *validator.Report         `json:"report"`
}

// IngestService orchestrates file analysis and processing operations.
type IngestService struct {
	repo      repository.Repository
	publisher events.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewIngestService creates a new ingest service. The publisher may be nil
// when no broker is configured.
func NewIngestService(repo repository.Repository, publisher events.Publisher, logger *slog.Logger) *IngestService {
	return &IngestService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("cnab/ingest"),
	}
}

// AnalyzeFile runs format detection only, without decoding or persisting.
func (s *IngestService) AnalyzeFile(ctx context.Context, fileData []byte) (*detect.Result, error) {
	_, span := s.tracer.Start(ctx, "ingest.AnalyzeFile")
	defer span.End()

	result, err := engine.Detect(NormalizeText(fileData))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("cnab.format", result.Format.String()),
		attribute.Int("cnab.confidence", result.Confidence),
	)
	return result, nil
}

// ProcessFile decodes, validates and stores an uploaded file, then publishes
// a processed event. A validation failure is not an error: the report is
// stored and returned either way.
func (s *IngestService) ProcessFile(ctx context.Context, fileName string, fileData []byte) (*ProcessResult, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.ProcessFile")
	defer span.End()

	text := NormalizeText(fileData)

	detection, err := engine.Detect(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.FilesProcessed.WithLabelValues("unknown", "rejected").Inc()
		return nil, err
	}

	doc, err := engine.Decode(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.FilesProcessed.WithLabelValues(detection.Format.String(), "rejected").Inc()
		return nil, err
	}

	report := engine.Validate(doc)

	file := &repository.ProcessedFile{
		ID:           uuid.New(),
		FileName:     fileName,
		SizeBytes:    int64(len(fileData)),
		Format:       doc.Format.String(),
		BankCode:     doc.BankCode,
		BankName:     detection.BankName,
		FileType:     string(detection.FileType),
		Confidence:   detection.Confidence,
		BatchCount:   len(doc.Batches),
		RecordCount:  doc.RecordCount,
		DetailCount:  doc.DetailCount(),
		TotalCents:   documentTotal(doc),
		Valid:        report.Valid,
		ErrorCount:   len(report.Errors),
		WarningCount: len(report.Warnings),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.SaveFile(ctx, file, report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to save processed file: %w", err)
	}

	recordMetrics(file, report)
	span.SetAttributes(
		attribute.String("cnab.file_id", file.ID.String()),
		attribute.String("cnab.format", file.Format),
		attribute.Bool("cnab.valid", file.Valid),
	)

	s.publish(ctx, file)

	s.logger.Info("file processed",
		"file_id", file.ID,
		"file_name", file.FileName,
		"format", file.Format,
		"bank", file.BankCode,
		"valid", file.Valid,
		"errors", file.ErrorCount,
		"warnings", file.WarningCount,
	)

	return &ProcessResult{File: file, Detection: detection, Report: report}, nil
}

// GetFile loads one processed file by ID.
func (s *IngestService) GetFile(ctx context.Context, id uuid.UUID) (*repository.ProcessedFile, error) {
	return s.repo.GetFile(ctx, id)
}

// GetReport loads the stored validation report of a file.
func (s *IngestService) GetReport(ctx context.Context, id uuid.UUID) (*validator.Report, error) {
	return s.repo.GetReport(ctx, id)
}

// ListFiles returns the most recently processed files.
func (s *IngestService) ListFiles(ctx context.Context, limit int) ([]*repository.ProcessedFile, error) {
	return s.repo.ListFiles(ctx, limit)
}

// publish sends the processed event; delivery failures are logged, never
// propagated, so that a broker outage does not fail uploads.
func (s *IngestService) publish(ctx context.Context, file *repository.ProcessedFile) {
	if s.publisher == nil {
		return
	}

	event := events.FileProcessed{
		FileID:       file.ID.String(),
		FileName:     file.FileName,
		Format:       file.Format,
		BankCode:     file.BankCode,
		FileType:     file.FileType,
		Valid:        file.Valid,
		ErrorCount:   file.ErrorCount,
		WarningCount: file.WarningCount,
		TotalCents:   file.TotalCents,
		ProcessedAt:  file.CreatedAt,
	}
	if err := s.publisher.PublishFileProcessed(ctx, event); err != nil {
		s.logger.Warn("failed to publish processed event", "file_id", file.ID, "error", err)
	}
}

func recordMetrics(file *repository.ProcessedFile, report *validator.Report) {
	result := "valid"
	if !file.Valid {
		result = "invalid"
	}
	observability.FilesProcessed.WithLabelValues(file.Format, result).Inc()

	for _, f := range report.Errors {
		observability.ValidationFindings.WithLabelValues(string(f.Category), string(f.Severity)).Inc()
	}
	for _, f := range report.Warnings {
		observability.ValidationFindings.WithLabelValues(string(f.Category), string(f.Severity)).Inc()
	}
}

// documentTotal sums the payment amounts of every primary detail record.
func documentTotal(doc *document.Document) int64 {
	var total int64
	for _, batch := range doc.Batches {
		for _, group := range batch.Details {
			primary := group.Primary()
			if primary == nil {
				continue
			}
			// CNAB240 primaries carry valorPagamento, CNAB400 details
			// carry valorTitulo; the other is always zero.
			total += primary.Fields.Number("valorPagamento")
			total += primary.Fields.Number("valorTitulo")
		}
	}
	return total
}
