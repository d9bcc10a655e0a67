// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/molcsv/internal/alcoa"
	"github.com/pdiddy/molcsv/internal/chem"
	"github.com/pdiddy/molcsv/internal/engine"
	"github.com/pdiddy/molcsv/internal/history"
	"github.com/pdiddy/molcsv/internal/report"
	"github.com/pdiddy/molcsv/pkg/types"
)

const (
	defaultMaxUploadBytes = 100 << 20
	defaultPreviewRows    = 500

	artifactCSV     = "output.csv"
	artifactSummary = "summary.json"
	artifactBadSDF  = "bad.sdf"
)

// Handler serves the upload form, the conversion endpoint, and the
// artifact downloads. The history store may be nil, which disables run
// recording and the runs listing.
type Handler struct {
	cfg    types.ServeConfig
	tk     chem.Toolkit
	store  *history.Store
	logger *slog.Logger
}

// NewHandler wires the conversion toolkit and the optional history store.
func NewHandler(cfg types.ServeConfig, tk chem.Toolkit, store *history.Store, logger *slog.Logger) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = defaultPreviewRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cfg: cfg, tk: tk, store: store, logger: logger}
}

// RegisterRoutes attaches all endpoints to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/convert", h.handleConvert)
	mux.HandleFunc("/download/", h.handleDownload)
	mux.HandleFunc("/runs", h.handleRuns)
	mux.HandleFunc("/healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ DatasetToken string }{DatasetToken: alcoa.DatasetToken(time.Now())}
	if err := indexTmpl.Execute(w, data); err != nil {
		h.logger.Error("rendering index", "error", err)
	}
}

// convertResponse is the JSON payload returned to the browser after a
// conversion. Preview is capped; the full CSV is behind the download URL.
type convertResponse struct {
	RunID            string              `json:"run_id"`
	Summary          types.Summary       `json:"summary"`
	Columns          []string            `json:"columns"`
	Preview          []map[string]string `json:"preview"`
	PreviewTruncated bool                `json:"preview_truncated"`
	Downloads        map[string]string   `json:"downloads"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	file, header, err := r.FormFile("sdf")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("missing SDF upload (field \"sdf\")"))
		return
	}
	defer file.Close()

	input, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	audit := auditFromForm(r)
	if audit.Enabled {
		if err := alcoa.FieldsFromConfig(audit).Validate(); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	sourceName := filepath.Base(header.Filename)
	if sourceName == "" || sourceName == "." {
		sourceName = "upload.sdf"
	}

	res, err := engine.Run(h.tk, input, sourceName, engine.Options{Audit: audit}, io.Discard)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	runDir := filepath.Join(h.cfg.WorkDir, res.Summary.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("staging run directory: %w", err))
		return
	}
	if err := report.SaveCSV(filepath.Join(runDir, artifactCSV), res.Columns, res.Rows); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := report.SaveSummaryJSON(filepath.Join(runDir, artifactSummary), res.Summary); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	downloads := map[string]string{
		"csv":     "/download/" + res.Summary.RunID + "/" + artifactCSV,
		"summary": "/download/" + res.Summary.RunID + "/" + artifactSummary,
	}
	artifacts := history.Artifacts{
		CSVPath:     filepath.Join(runDir, artifactCSV),
		SummaryPath: filepath.Join(runDir, artifactSummary),
	}
	if len(res.Failed) > 0 {
		badPath := filepath.Join(runDir, artifactBadSDF)
		if err := report.SaveFailedSDF(badPath, res.Failed); err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		downloads["bad_sdf"] = "/download/" + res.Summary.RunID + "/" + artifactBadSDF
		artifacts.BadSDFPath = badPath
	}

	if h.store != nil {
		if err := h.store.Record(r.Context(), res.Summary, artifacts, "web"); err != nil {
			h.logger.Warn("run not recorded in history", "run_id", res.Summary.RunID, "error", err)
		}
	}

	preview := res.Rows
	truncated := false
	if len(preview) > h.cfg.PreviewRows {
		preview = preview[:h.cfg.PreviewRows]
		truncated = true
	}

	h.logger.Info("conversion complete",
		"run_id", res.Summary.RunID,
		"source", sourceName,
		"converted", res.Summary.Counts.RecordsConverted,
		"failed", res.Summary.Counts.RecordsFailed,
	)

	h.writeJSON(w, http.StatusOK, convertResponse{
		RunID:            res.Summary.RunID,
		Summary:          res.Summary,
		Columns:          res.Columns,
		Preview:          preview,
		PreviewTruncated: truncated,
		Downloads:        downloads,
	})
}

// auditFromForm maps the upload form fields onto the audit configuration.
func auditFromForm(r *http.Request) types.AuditConfig {
	enabled := r.FormValue("alcoa")
	return types.AuditConfig{
		Enabled:     enabled == "on" || enabled == "true" || enabled == "1",
		Operator:    r.FormValue("operator"),
		Contact:     r.FormValue("contact"),
		Purpose:     r.FormValue("purpose"),
		DatasetID:   r.FormValue("dataset_id"),
		StoragePlan: r.FormValue("storage_plan"),
	}
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/download/")
	id, name, ok := strings.Cut(rest, "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Run IDs are UUIDs; rejecting anything else keeps path traversal out
	// of the work directory.
	if err := uuid.Validate(id); err != nil {
		http.NotFound(w, r)
		return
	}
	switch name {
	case artifactCSV, artifactSummary, artifactBadSDF:
	default:
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.cfg.WorkDir, id, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeFile(w, r, path)
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		h.writeJSON(w, http.StatusOK, []history.RunRecord{})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []history.RunRecord{}
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		h.logger.Error("request failed", "status", status, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
