package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/detect"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/engine"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
	"github.com/FACorreiaa/cnab-engine/internal/domain/common"
	"github.com/FACorreiaa/cnab-engine/internal/domain/ingest/repository"
	"github.com/FACorreiaa/cnab-engine/internal/domain/ingest/service"
)

type stubService struct {
	analyzeResult *detect.Result
	analyzeErr    error
	processResult *service.ProcessResult
	processErr    error
	file          *repository.ProcessedFile
	report        *validator.Report
	lastFileName  string
}

func (s *stubService) AnalyzeFile(_ context.Context, _ []byte) (*detect.Result, error) {
	return s.analyzeResult, s.analyzeErr
}

func (s *stubService) ProcessFile(_ context.Context, fileName string, _ []byte) (*service.ProcessResult, error) {
	s.lastFileName = fileName
	return s.processResult, s.processErr
}

func (s *stubService) GetFile(_ context.Context, id uuid.UUID) (*repository.ProcessedFile, error) {
	if s.file != nil && s.file.ID == id {
		return s.file, nil
	}
	return nil, common.ErrNotFound
}

func (s *stubService) GetReport(_ context.Context, id uuid.UUID) (*validator.Report, error) {
	if s.file != nil && s.file.ID == id {
		return s.report, nil
	}
	return nil, common.ErrNotFound
}

func (s *stubService) ListFiles(_ context.Context, _ int) ([]*repository.ProcessedFile, error) {
	if s.file == nil {
		return nil, nil
	}
	return []*repository.ProcessedFile{s.file}, nil
}

func newTestRouter(svc IngestService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewIngestHandler(svc, logger, 1<<20).RegisterRoutes(r)
	return r
}

func TestDetectEndpoint(t *testing.T) {
	svc := &stubService{
		analyzeResult: &detect.Result{
			Format:     layout.CNAB240,
			BankCode:   "341",
			BankName:   "Itaú Unibanco",
			Confidence: 100,
			FileType:   detect.FileTypeRemessa,
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/cnab/detect", strings.NewReader("raw file bytes"))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var got detect.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.BankCode != "341" || got.Confidence != 100 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestDetectEndpoint_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/cnab/detect", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&stubService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadEndpoint_Multipart(t *testing.T) {
	svc := &stubService{
		processResult: &service.ProcessResult{
			File:   &repository.ProcessedFile{ID: uuid.New(), FileName: "pagamentos.rem", Valid: true},
			Report: &validator.Report{Valid: true},
		},
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "pagamentos.rem")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("file contents")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/cnab/files", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if svc.lastFileName != "pagamentos.rem" {
		t.Errorf("file name = %q, want the multipart filename", svc.lastFileName)
	}
}

func TestUploadEndpoint_UnsupportedWidth(t *testing.T) {
	svc := &stubService{
		processErr: &engine.DecodeError{Stage: "detect", Err: detect.ErrUnsupportedLineLength},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/cnab/files", strings.NewReader("not cnab"))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadEndpoint_StructuralFailure(t *testing.T) {
	svc := &stubService{
		processErr: &engine.DecodeError{Stage: "assemble", Err: io.ErrUnexpectedEOF},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/cnab/files", strings.NewReader("broken"))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGetEndpoint(t *testing.T) {
	file := &repository.ProcessedFile{ID: uuid.New(), FileName: "a.rem", Format: "CNAB240"}
	svc := &stubService{file: file, report: &validator.Report{Valid: true}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/cnab/files/"+file.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/cnab/files/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/cnab/files/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetReportEndpoint(t *testing.T) {
	file := &repository.ProcessedFile{ID: uuid.New()}
	report := &validator.Report{
		Valid:  false,
		Errors: []validator.Finding{{Code: "INT001", Severity: validator.SeverityError, Category: validator.CategoryIntegrity}},
	}
	svc := &stubService{file: file, report: report}

	req := httptest.NewRequest(http.MethodGet, "/v1/cnab/files/"+file.ID.String()+"/report", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got validator.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Valid || len(got.Errors) != 1 {
		t.Errorf("unexpected report: %+v", got)
	}
}

func TestListEndpoint_BadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/cnab/files?limit=abc", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&stubService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
