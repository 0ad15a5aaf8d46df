// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// TableDependencies defines the interface for points-table dependencies.
type TableDependencies interface {
	BuildTable(ctx context.Context, results map[string]ResultRecord) ([]PointsRow, error)
	BuildTableWithSlots(ctx context.Context, results map[string]ResultRecord, slots []SlotRecord) ([]PointsRow, error)
}

// TableHandler handles points-table requests.
type TableHandler struct {
	deps TableDependencies
}

// NewTableHandler creates a new points-table handler.
func NewTableHandler(deps TableDependencies) *TableHandler {
	return &TableHandler{deps: deps}
}

// HandlePointsTable handles POST /api/points-table requests.
func (h *TableHandler) HandlePointsTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.points_table"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
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

	rows, err := h.buildRows(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build points table", err)
		return
	}
	writeSuccess(w, http.StatusOK, rows)
}

// buildRows picks the join path: a supplied slot list switches on the
// roster matcher, otherwise rows keep nil slot numbers.
func (h *TableHandler) buildRows(ctx context.Context, req tableRequest) ([]PointsRow, error) {
	if len(req.Slots) > 0 {
		return h.deps.BuildTableWithSlots(ctx, req.Results, req.Slots)
	}
	return h.deps.BuildTable(ctx, req.Results)
}
