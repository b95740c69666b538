package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
	"github.com/FACorreiaa/cnab-engine/internal/domain/common"
)

// DBTX is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL-backed repository.
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const insertFileQuery = `
	INSERT INTO cnab_files (
		id, file_name, size_bytes, format, bank_code, bank_name, file_type,
		confidence, batch_count, record_count, detail_count, total_cents,
		valid, error_count, warning_count, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

const insertReportQuery = `
	INSERT INTO cnab_validation_reports (file_id, report) VALUES ($1, $2)
`

const getFileQuery = `
	SELECT id, file_name, size_bytes, format, bank_code, bank_name, file_type,
	       confidence, batch_count, record_count, detail_count, total_cents,
	       valid, error_count, warning_count, created_at
	FROM cnab_files
	WHERE id = $1
`

const getReportQuery = `
	SELECT report FROM cnab_validation_reports WHERE file_id = $1
`

const listFilesQuery = `
	SELECT id, file_name, size_bytes, format, bank_code, bank_name, file_type,
	       confidence, batch_count, record_count, detail_count, total_cents,
	       valid, error_count, warning_count, created_at
	FROM cnab_files
	ORDER BY created_at DESC
	LIMIT $1
`

// SaveFile persists the file record and its validation report.
func (r *PostgresRepository) SaveFile(ctx context.Context, file *ProcessedFile, report *validator.Report) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, insertFileQuery,
		file.ID, file.FileName, file.SizeBytes, file.Format, file.BankCode,
		file.BankName, file.FileType, file.Confidence, file.BatchCount,
		file.RecordCount, file.DetailCount, file.TotalCents,
		file.Valid, file.ErrorCount, file.WarningCount, file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cnab file: %w", err)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal validation report: %w", err)
	}
	if _, err := r.db.Exec(ctx, insertReportQuery, file.ID, payload); err != nil {
		return fmt.Errorf("failed to insert validation report: %w", err)
	}

	return nil
}

// GetFile loads one processed file by ID.
func (r *PostgresRepository) GetFile(ctx context.Context, id uuid.UUID) (*ProcessedFile, error) {
	var f ProcessedFile
	err := r.db.QueryRow(ctx, getFileQuery, id).Scan(
		&f.ID, &f.FileName, &f.SizeBytes, &f.Format, &f.BankCode, &f.BankName,
		&f.FileType, &f.Confidence, &f.BatchCount, &f.RecordCount,
		&f.DetailCount, &f.TotalCents, &f.Valid, &f.ErrorCount,
		&f.WarningCount, &f.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cnab file: %w", err)
	}
	return &f, nil
}

// GetReport loads the stored validation report of a file.
func (r *PostgresRepository) GetReport(ctx context.Context, id uuid.UUID) (*validator.Report, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, getReportQuery, id).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get validation report: %w", err)
	}

	var report validator.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation report: %w", err)
	}
	return &report, nil
}

// ListFiles returns the most recently processed files.
func (r *PostgresRepository) ListFiles(ctx context.Context, limit int) ([]*ProcessedFile, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, listFilesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cnab files: %w", err)
	}
	defer rows.Close()

	var files []*ProcessedFile
	for rows.Next() {
		var f ProcessedFile
		if err := rows.Scan(
			&f.ID, &f.FileName, &f.SizeBytes, &f.Format, &f.BankCode, &f.BankName,
			&f.FileType, &f.Confidence, &f.BatchCount, &f.RecordCount,
			&f.DetailCount, &f.TotalCents, &f.Valid, &f.ErrorCount,
			&f.WarningCount, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cnab file: %w", err)
		}
		files = append(files, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cnab files: %w", err)
	}
	return files, nil
}
