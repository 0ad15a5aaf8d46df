// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/vrushal1018/points-table-system/internal/app"
	"github.com/vrushal1018/points-table-system/internal/domain/model"
)

// imagesField is the multipart form field carrying the screenshots.
const imagesField = "images"

// AnalyzeDependencies defines the interface for image analysis dependencies.
type AnalyzeDependencies interface {
	AnalyzeSlots(ctx context.Context, images []model.Image) ([]SlotRecord, error)
	AnalyzeResults(ctx context.Context, images []model.Image) (map[string]ResultRecord, error)
	MaxImages() int
	MaxImageSize() int64
}

// AnalyzeHandler handles screenshot upload and analysis requests.
type AnalyzeHandler struct {
	deps AnalyzeDependencies
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps}
}

// HandleAnalyzeSlots handles POST /api/analyze-slots requests.
func (h *AnalyzeHandler) HandleAnalyzeSlots(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_slots"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	images, err := h.readImages(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), NewKind(op, ErrBadRequest))
		return
	}

	slots, err := h.deps.AnalyzeSlots(r.Context(), images)
	if err != nil {
		status, msg, details := analyzeErrorStatus(err)
		writeError(w, status, msg, details)
		return
	}
	writeSuccess(w, http.StatusOK, slots)
}

// HandleAnalyzeResults handles POST /api/analyze-results requests.
func (h *AnalyzeHandler) HandleAnalyzeResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_results"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	images, err := h.readImages(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), NewKind(op, ErrBadRequest))
		return
	}

	results, err := h.deps.AnalyzeResults(r.Context(), images)
	if err != nil {
		status, msg, details := analyzeErrorStatus(err)
		writeError(w, status, msg, details)
		return
	}
	writeSuccess(w, http.StatusOK, results)
}

// readImages pulls the uploaded screenshots out of the multipart form,
// enforcing the per-file size cap and the batch count cap.
func (h *AnalyzeHandler) readImages(r *http.Request) ([]model.Image, error) {
	maxSize := h.deps.MaxImageSize()
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	files := r.MultipartForm.File[imagesField]
	if len(files) == 0 {
		return nil, ErrNoImages
	}
	if limit := h.deps.MaxImages(); len(files) > limit {
		return nil, fmt.Errorf("%w: got %d, limit is %d", ErrTooManyImages, len(files), limit)
	}

	images := make([]model.Image, 0, len(files))
	for _, header := range files {
		if header.Size > maxSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, header.Filename, maxSize)
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}
		if int64(len(data)) > maxSize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, header.Filename, maxSize)
		}

		mime := header.Header.Get("Content-Type")
		if mime == "" {
			mime = http.DetectContentType(data)
		}
		images = append(images, model.Image{
			Name: header.Filename,
			MIME: mime,
			Data: data,
		})
	}
	return images, nil
}

// errNoDataHint tells the caller what to try when a batch yields nothing.
var errNoDataHint = errors.New("check that the images contain clear slot or result information and try again")

// analyzeErrorStatus maps pipeline failures to response status, message
// and details. A batch that yields nothing is a server-side failure,
// not a bad request.
func analyzeErrorStatus(err error) (int, string, error) {
	if errors.Is(err, service.ErrNoData) {
		return http.StatusInternalServerError, service.ErrNoData.Error(), errNoDataHint
	}
	return http.StatusInternalServerError, "failed to analyze images", err
}
