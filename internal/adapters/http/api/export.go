// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vrushal1018/points-table-system/internal/export"
)

// ExportHandler handles points-table download requests.
type ExportHandler struct {
	deps TableDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps TableDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles POST /api/export requests. The body matches
// /api/points-table; the format query parameter picks csv or xlsx and
// defaults to csv.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format), WrapKind(op, ErrBadRequest, export.ErrUnsupportedFormat))
		return
	}

	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Results) == 0 {
		writeError(w, http.StatusBadRequest, "missing results", NewKind(op, ErrBadRequest))
		return
	}

	var rows []PointsRow
	var err error
	if len(req.Slots) > 0 {
		rows, err = h.deps.BuildTableWithSlots(r.Context(), req.Results, req.Slots)
	} else {
		rows, err = h.deps.BuildTable(r.Context(), req.Results)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build points table", err)
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case export.FormatXLSX:
		payload, err = export.XLSX(rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		payload, err = export.CSV(rows)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
