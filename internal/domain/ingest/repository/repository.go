// Package repository provides data access for processed CNAB files.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
)

// ProcessedFile is the stored record of one decode-and-validate run.
// It is a record of processing, not a payment model: the engine's output
// is the source of truth and is kept verbatim in the report.
type ProcessedFile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"fileName"`
	SizeBytes    int64     `db:"size_bytes" json:"sizeBytes"`
	Format       string    `db:"format" json:"format"`
	BankCode     string    `db:"bank_code" json:"bankCode"`
	BankName     string    `db:"bank_name" json:"bankName"`
	FileType     string    `db:"file_type" json:"fileType"`
	Confidence   int       `db:"confidence" json:"confidence"`
	BatchCount   int       `db:"batch_count" json:"batchCount"`
	RecordCount  int       `db:"record_count" json:"recordCount"`
	DetailCount  int       `db:"detail_count" json:"detailCount"`
	TotalCents   int64     `db:"total_cents" json:"totalCents"`
	Valid        bool      `db:"valid" json:"valid"`
	ErrorCount   int       `db:"error_count" json:"errorCount"`
	WarningCount int       `db:"warning_count" json:"warningCount"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Repository stores and retrieves processed files and their reports.
type Repository interface {
	SaveFile(ctx context.Context, file *ProcessedFile, report *validator.Report) error
	GetFile(ctx context.Context, id uuid.UUID) (*ProcessedFile, error)
	GetReport(ctx context.Context, id uuid.UUID) (*validator.Report, error)
	ListFiles(ctx context.Context, limit int) ([]*ProcessedFile, error)
}
