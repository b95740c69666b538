// Package handler exposes the ingest API over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/detect"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/engine"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
	"github.com/FACorreiaa/cnab-engine/internal/domain/common"
	"github.com/FACorreiaa/cnab-engine/internal/domain/ingest/repository"
	"github.com/FACorreiaa/cnab-engine/internal/domain/ingest/service"
)

// IngestService is the service surface the handler depends on.
type IngestService interface {
	AnalyzeFile(ctx context.Context, fileData []byte) (*detect.Result, error)
	ProcessFile(ctx context.Context, fileName string, fileData []byte) (*service.ProcessResult, error)
	GetFile(ctx context.Context, id uuid.UUID) (*repository.ProcessedFile, error)
	GetReport(ctx context.Context, id uuid.UUID) (*validator.Report, error)
	ListFiles(ctx context.Context, limit int) ([]*repository.ProcessedFile, error)
}

// IngestHandler implements the HTTP endpoints for file ingestion.
type IngestHandler struct {
	svc      IngestService
	logger   *slog.Logger
	maxBytes int64
}

// NewIngestHandler constructs a new handler. maxBytes caps the accepted
// upload size; zero falls back to 10 MiB.
func NewIngestHandler(svc IngestService, logger *slog.Logger, maxBytes int64) *IngestHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &IngestHandler{svc: svc, logger: logger, maxBytes: maxBytes}
}

// RegisterRoutes mounts the ingest endpoints on the router.
func (h *IngestHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/cnab", func(r chi.Router) {
		r.Post("/detect", h.Detect)
		r.Post("/files", h.Upload)
		r.Get("/files", h.List)
		r.Get("/files/{id}", h.Get)
		r.Get("/files/{id}/report", h.GetReport)
	})
}

// Detect runs format detection without persisting anything.
func (h *IngestHandler) Detect(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.AnalyzeFile(r.Context(), data)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Upload decodes, validates and stores an uploaded file.
func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := h.readUpload(w, r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.ProcessFile(r.Context(), fileName, data)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, result)
}

// List returns the most recently processed files.
func (h *IngestHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	files, err := h.svc.ListFiles(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if files == nil {
		files = []*repository.ProcessedFile{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"files": files})
}

// Get returns one processed file by ID.
func (h *IngestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	file, err := h.svc.GetFile(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, file)
}

// GetReport returns the stored validation report of a file.
func (h *IngestHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// readUpload accepts either a multipart form with a "file" part or a raw
// body, capped at maxBytes.
func (h *IngestHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			return "", nil, errors.New("failed to parse multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, errors.New("multipart form must contain a \"file\" part")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
		if err != nil {
			return "", nil, errors.New("failed to read uploaded file")
		}
		if int64(len(data)) > h.maxBytes {
			return "", nil, errors.New("uploaded file too large")
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		return "", nil, errors.New("failed to read request body")
	}
	if len(data) == 0 {
		return "", nil, errors.New("request body is empty")
	}

	fileName := r.URL.Query().Get("name")
	if fileName == "" {
		fileName = "upload"
	}
	return fileName, data, nil
}

// respondServiceError maps service and engine errors to status codes.
func (h *IngestHandler) respondServiceError(w http.ResponseWriter, err error) {
	var decodeErr *engine.DecodeError
	switch {
	case errors.Is(err, detect.ErrEmptyFile), errors.Is(err, detect.ErrUnsupportedLineLength):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &decodeErr):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "file not found")
	default:
		h.logger.Error("request failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *IngestHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *IngestHandler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
