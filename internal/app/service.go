// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrushal1018/points-table-system/internal/domain/extract"
	"github.com/vrushal1018/points-table-system/internal/domain/match"
	"github.com/vrushal1018/points-table-system/internal/domain/model"
	"github.com/vrushal1018/points-table-system/internal/domain/reconcile"
	"github.com/vrushal1018/points-table-system/internal/domain/scoring"
	"github.com/vrushal1018/points-table-system/internal/domain/types"
	"github.com/vrushal1018/points-table-system/internal/inference"
	"github.com/vrushal1018/points-table-system/pkg/logger"
	"github.com/vrushal1018/points-table-system/pkg/metrics"
)

// Transcriber turns a screenshot into the model's raw text response.
type Transcriber interface {
	Transcribe(ctx context.Context, img model.Image, instruction string) (string, error)
}

// Service runs the image analysis pipeline and builds points tables.
type Service struct {
	mu sync.RWMutex

	// Core components
	transcriber Transcriber
	builder     *scoring.Builder

	// Configuration
	imageDelay     time.Duration
	maxImages      int
	maxImageSize   int64
	positionPoints map[int]int

	// Seam for tests; defaults to a context-aware sleep.
	delay func(ctx context.Context, d time.Duration)

	// State
	slotBatches   int
	resultBatches int
	imagesOK      int
	imagesFailed  int
	lastBatchAt   time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTranscriber sets the vision client used to read screenshots.
func WithTranscriber(t Transcriber) Option {
	return func(s *Service) {
		if t != nil {
			s.transcriber = t
		}
	}
}

// WithImageDelay sets the pause between consecutive images in a batch.
func WithImageDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.imageDelay = d
		}
	}
}

// WithMaxImages caps how many images a single batch may carry.
func WithMaxImages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImages = n
		}
	}
}

// WithMaxImageSize caps the size in bytes of a single uploaded image.
func WithMaxImageSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageSize = n
		}
	}
}

// WithPositionPoints overrides the rank to position-points mapping.
func WithPositionPoints(points map[int]int) Option {
	return func(s *Service) {
		if len(points) > 0 {
			s.positionPoints = points
		}
	}
}

// WithDelayFunc replaces the inter-image sleep, used by tests.
func WithDelayFunc(fn func(ctx context.Context, d time.Duration)) Option {
	return func(s *Service) {
		if fn != nil {
			s.delay = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		imageDelay:   time.Second,
		maxImages:    10,
		maxImageSize: 10 << 20,
		delay: func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-ctx.Done():
			case <-t.C:
			}
		},
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	var builderOpts []scoring.Option
	if s.positionPoints != nil {
		builderOpts = append(builderOpts, scoring.WithPositionPoints(s.positionPoints))
	}
	builderOpts = append(builderOpts, scoring.WithLogger(s.logger))
	s.builder = scoring.NewBuilder(builderOpts...)

	return s
}

// MaxImages returns the per-batch image cap.
func (s *Service) MaxImages() int {
	return s.maxImages
}

// MaxImageSize returns the per-image upload size cap in bytes.
func (s *Service) MaxImageSize() int64 {
	return s.maxImageSize
}

// AnalyzeSlots transcribes slot-list screenshots and returns the
// deduplicated slot records across the whole batch.
func (s *Service) AnalyzeSlots(ctx context.Context, images []model.Image) ([]model.SlotRecord, error) {
	var all []model.SlotRecord
	err := s.runBatch(ctx, "slots", images, func(text string) int {
		records := extract.Slots(text)
		all = append(all, records...)
		return len(records)
	})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		metrics.RecordEmptyBatch("slots")
		return nil, ErrNoData
	}

	s.mu.Lock()
	s.slotBatches++
	s.mu.Unlock()

	return reconcile.Slots(all), nil
}

// AnalyzeResults transcribes match-result screenshots and returns the
// reconciled result map keyed by rank.
func (s *Service) AnalyzeResults(ctx context.Context, images []model.Image) (map[string]model.ResultRecord, error) {
	var all []model.ResultRecord
	err := s.runBatch(ctx, "results", images, func(text string) int {
		records := extract.Results(text)
		all = append(all, records...)
		return len(records)
	})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		metrics.RecordEmptyBatch("results")
		return nil, ErrNoData
	}

	s.mu.Lock()
	s.resultBatches++
	s.mu.Unlock()

	return reconcile.Results(all), nil
}

// runBatch walks the images strictly in order. A failed image is logged
// and skipped so the rest of the batch still contributes records, and a
// short pause separates consecutive requests.
func (s *Service) runBatch(ctx context.Context, schema string, images []model.Image, collect func(text string) int) error {
	if s.transcriber == nil {
		return ErrNoTranscriber
	}

	batchID := uuid.NewString()
	start := time.Now()
	instruction := inference.SlotInstruction
	if schema == "results" {
		instruction = inference.ResultInstruction
	}

	s.logger.Info(ctx, "starting image batch",
		logger.String("batchID", batchID),
		logger.String("schema", schema),
		logger.Int("images", len(images)),
	)

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := s.transcriber.Transcribe(ctx, img, instruction)
		if err != nil {
			s.mu.Lock()
			s.imagesFailed++
			s.mu.Unlock()
			metrics.RecordImageProcessed(schema, "failed")
			metrics.RecordErrorByComponent("batch", "transcription")
			s.logger.Warn(ctx, "image transcription failed, skipping",
				logger.String("batchID", batchID),
				logger.String("image", img.Name),
				logger.Int("index", i),
				logger.Error(err),
			)
		} else {
			count := collect(text)
			s.mu.Lock()
			s.imagesOK++
			s.mu.Unlock()
			metrics.RecordImageProcessed(schema, "ok")
			metrics.RecordRecordsExtracted(schema, count)
			s.logger.Debug(ctx, "image transcribed",
				logger.String("batchID", batchID),
				logger.String("image", img.Name),
				logger.Int("records", count),
			)
		}

		// Pace requests to the vision service; no pause after the last image.
		if i < len(images)-1 && s.imageDelay > 0 {
			s.delay(ctx, s.imageDelay)
		}
	}

	s.mu.Lock()
	s.lastBatchAt = time.Now()
	s.mu.Unlock()

	metrics.RecordBatchDuration(schema, time.Since(start).Seconds())
	s.logger.Info(ctx, "image batch finished",
		logger.String("batchID", batchID),
		logger.String("schema", schema),
		logger.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// BuildTable computes a points table from reconciled results alone.
// Rows keep a nil slot number since no slot list was supplied.
func (s *Service) BuildTable(ctx context.Context, results map[string]model.ResultRecord) ([]types.PointsRow, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	rows := s.builder.Build(ctx, results)

	metrics.RecordTableBuild()
	metrics.UpdateTableRows(len(rows))
	return rows, nil
}

// BuildTableWithSlots joins the slot list onto the results by fuzzy
// roster matching before scoring, so rows carry their slot numbers.
func (s *Service) BuildTableWithSlots(ctx context.Context, results map[string]model.ResultRecord, slots []model.SlotRecord) ([]types.PointsRow, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	assigned := match.Assign(slots, results)
	slotByKey := make(map[string]int, len(assigned))
	for slotNo, key := range assigned {
		slotByKey[key] = slotNo
	}

	rows := s.builder.BuildAssigned(ctx, results, slotByKey)

	// Slots whose rosters matched no result still appear in the table
	// as zero-point rows without a rank.
	var unmatched []model.SlotRecord
	for _, slot := range slots {
		if _, ok := assigned[slot.SlotNo]; !ok {
			unmatched = append(unmatched, slot)
		}
	}
	sort.Slice(unmatched, func(i, j int) bool { return unmatched[i].SlotNo < unmatched[j].SlotNo })
	for _, slot := range unmatched {
		slotNo := slot.SlotNo
		rows = append(rows, types.PointsRow{
			SlotNo:      &slotNo,
			TeamMembers: slot.TeamMembers,
		})
	}

	s.logger.Info(ctx, "joined slot list onto results",
		logger.Int("slots", len(slots)),
		logger.Int("matched", len(assigned)),
		logger.Int("rows", len(rows)),
	)

	metrics.RecordTableBuild()
	metrics.UpdateTableRows(len(rows))
	return rows, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"slotBatches":   s.slotBatches,
		"resultBatches": s.resultBatches,
		"imagesOK":      s.imagesOK,
		"imagesFailed":  s.imagesFailed,
		"maxImages":     s.maxImages,
	}
	if !s.lastBatchAt.IsZero() {
		stats["lastBatchAt"] = s.lastBatchAt.UTC().Format(time.RFC3339)
	}
	return stats
}
