// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
	"github.com/vrushal1018/points-table-system/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Batch analysis over uploaded screenshots.
	AnalyzeSlots(ctx context.Context, images []model.Image) ([]SlotRecord, error)
	AnalyzeResults(ctx context.Context, images []model.Image) (map[string]ResultRecord, error)

	// Table building from reconciled results.
	BuildTable(ctx context.Context, results map[string]ResultRecord) ([]PointsRow, error)
	BuildTableWithSlots(ctx context.Context, results map[string]ResultRecord, slots []SlotRecord) ([]PointsRow, error)

	// MaxImages caps how many files one upload may carry and
	// MaxImageSize bounds a single file in bytes.
	MaxImages() int
	MaxImageSize() int64
}

// Read shapes shared with the domain layer.
type (
	SlotRecord   = model.SlotRecord
	ResultRecord = model.ResultRecord
	PointsRow    = types.PointsRow
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	analyzeHandler *AnalyzeHandler
	tableHandler   *TableHandler
	exportHandler  *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		analyzeHandler: NewAnalyzeHandler(deps),
		tableHandler:   NewTableHandler(deps),
		exportHandler:  NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/analyze-slots", MetricsMiddleware(s.analyzeHandler.HandleAnalyzeSlots, "analyze_slots"))
	mux.HandleFunc("/api/analyze-results", MetricsMiddleware(s.analyzeHandler.HandleAnalyzeResults, "analyze_results"))
	mux.HandleFunc("/api/points-table", MetricsMiddleware(s.tableHandler.HandlePointsTable, "points_table"))
	mux.HandleFunc("/api/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

// tableRequest mirrors the body of POST /api/points-table and /api/export.
// Slots are optional; when present the rows are joined to slot numbers by
// roster matching.
type tableRequest struct {
	Results map[string]ResultRecord `json:"results"`
	Slots   []SlotRecord            `json:"slots,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
