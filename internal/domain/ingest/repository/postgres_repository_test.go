package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
	"github.com/FACorreiaa/cnab-engine/internal/domain/common"
)

var fileColumns = []string{
	"id", "file_name", "size_bytes", "format", "bank_code", "bank_name", "file_type",
	"confidence", "batch_count", "record_count", "detail_count", "total_cents",
	"valid", "error_count", "warning_count", "created_at",
}

func TestPostgresRepository_SaveFile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	file := &ProcessedFile{
		ID:          uuid.New(),
		FileName:    "remessa.rem",
		SizeBytes:   1205,
		Format:      "CNAB240",
		BankCode:    "341",
		BankName:    "Itaú Unibanco",
		FileType:    "remessa",
		Confidence:  100,
		BatchCount:  1,
		RecordCount: 5,
		DetailCount: 1,
		TotalCents:  50000,
		Valid:       true,
		CreatedAt:   time.Now().UTC(),
	}
	report := &validator.Report{Valid: true}

	mock.ExpectExec(regexp.QuoteMeta(insertFileQuery)).
		WithArgs(file.ID, file.FileName, file.SizeBytes, file.Format, file.BankCode,
			file.BankName, file.FileType, file.Confidence, file.BatchCount,
			file.RecordCount, file.DetailCount, file.TotalCents,
			file.Valid, file.ErrorCount, file.WarningCount, file.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(insertReportQuery)).
		WithArgs(file.ID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	if err := repo.SaveFile(context.Background(), file, report); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_GetFile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(getFileQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(fileColumns).
			AddRow(id, "retorno.ret", int64(964), "CNAB400", "237", "Bradesco", "retorno",
				100, 1, 4, 2, int64(123456), false, 2, 1, now))

	repo := NewPostgresRepository(mock)
	file, err := repo.GetFile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if file.ID != id || file.Format != "CNAB400" || file.ErrorCount != 2 {
		t.Fatalf("unexpected file: %+v", file)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_GetFile_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getFileQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(fileColumns))

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetFile(context.Background(), id); err != common.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_GetReport(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	stored := &validator.Report{
		Valid: false,
		Errors: []validator.Finding{{
			Severity: validator.SeverityError,
			Category: validator.CategoryIntegrity,
			Code:     "INT001",
			Message:  "batch 0001 trailer declares 5 records, found 3",
			Line:     6,
		}},
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(getReportQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"report"}).AddRow(payload))

	repo := NewPostgresRepository(mock)
	report, err := repo.GetReport(context.Background(), id)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if report.Valid || len(report.Errors) != 1 || report.Errors[0].Code != "INT001" {
		t.Fatalf("unexpected report: %+v", report)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_ListFiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(listFilesQuery)).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(fileColumns).
			AddRow(uuid.New(), "a.rem", int64(1), "CNAB240", "341", "Itaú Unibanco", "remessa",
				100, 1, 5, 1, int64(0), true, 0, 0, now).
			AddRow(uuid.New(), "b.ret", int64(1), "CNAB400", "237", "Bradesco", "retorno",
				100, 1, 4, 2, int64(0), true, 0, 0, now))

	repo := NewPostgresRepository(mock)
	files, err := repo.ListFiles(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0].FileName != "a.rem" {
		t.Fatalf("unexpected files: %+v", files)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
