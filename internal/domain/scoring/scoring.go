// Package scoring derives the ranked points table from reconciled results.
package scoring

import (
	"context"
	"sort"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
	"github.com/vrushal1018/points-table-system/internal/domain/types"
	"github.com/vrushal1018/points-table-system/pkg/logger"
)

// defaultPositionPoints is the fixed bonus per finishing rank. Ranks
// outside 1-8 contribute zero.
var defaultPositionPoints = map[int]int{
	1: 10, 2: 6, 3: 5, 4: 4, 5: 3, 6: 2, 7: 1, 8: 1,
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithPositionPoints overrides the rank-to-points lookup table.
// Non-positive point values are dropped.
func WithPositionPoints(points map[int]int) Option {
	return func(b *Builder) {
		if len(points) == 0 {
			return
		}
		b.positionPoints = make(map[int]int, len(points))
		for rank, pts := range points {
			if pts > 0 {
				b.positionPoints[rank] = pts
			}
		}
	}
}

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(log logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// Builder computes points tables. Zero third-party input is trusted:
// missing finishes degrade to zero totals with a warning, never an error.
type Builder struct {
	positionPoints map[int]int
	log            logger.Logger
}

// NewBuilder creates a Builder with the default position points table.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		positionPoints: defaultPositionPoints,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// PositionPoints returns the bonus for a finishing rank, zero when the
// rank is outside the table.
func (b *Builder) PositionPoints(rank int) int {
	return b.positionPoints[rank]
}

// Score fills the derived fields of one result record: TotalFinishes is
// recomputed from Finishes (zero when absent), PositionPoints looked up by
// rank, TotalPoints their sum.
func (b *Builder) Score(ctx context.Context, rec model.ResultRecord) model.ResultRecord {
	if len(rec.Finishes) == 0 {
		if b.log != nil {
			b.log.Warn(ctx, "no finishes reported for team; counting zero",
				logger.Int("rank", rec.Rank),
				logger.Any("team_members", rec.TeamMembers),
			)
		}
		rec.TotalFinishes = 0
	} else {
		total := 0
		for _, f := range rec.Finishes {
			total += f
		}
		rec.TotalFinishes = total
	}
	rec.PositionPoints = b.PositionPoints(rec.Rank)
	rec.TotalPoints = rec.TotalFinishes + rec.PositionPoints
	return rec
}

// Build scores every reconciled result and returns the ranked table:
// total points descending, ties broken by lower rank first (missing rank
// last), then by canonical key so the order is fully deterministic.
// Output length always equals input length.
func (b *Builder) Build(ctx context.Context, results map[string]model.ResultRecord) []types.PointsRow {
	return b.BuildAssigned(ctx, results, nil)
}

// BuildAssigned is Build with a slot identity join: slotByKey maps result
// keys to the slot numbers the roster matcher assigned them. Rows whose
// key is absent from the map keep a nil slot number.
func (b *Builder) BuildAssigned(ctx context.Context, results map[string]model.ResultRecord, slotByKey map[string]int) []types.PointsRow {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	type keyedRow struct {
		key string
		row types.PointsRow
	}
	rows := make([]keyedRow, 0, len(results))
	for _, key := range keys {
		scored := b.Score(ctx, results[key])
		row := types.PointsRow{
			TeamMembers:    scored.TeamMembers,
			TotalFinishes:  scored.TotalFinishes,
			PositionPoints: scored.PositionPoints,
			TotalPoints:    scored.TotalPoints,
		}
		if scored.Rank > 0 {
			rank := scored.Rank
			row.Rank = &rank
		}
		if slotNo, ok := slotByKey[key]; ok {
			n := slotNo
			row.SlotNo = &n
		}
		rows = append(rows, keyedRow{key: key, row: row})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		left, right := rows[i], rows[j]
		if left.row.TotalPoints != right.row.TotalPoints {
			return left.row.TotalPoints > right.row.TotalPoints
		}
		switch {
		case left.row.Rank != nil && right.row.Rank != nil && *left.row.Rank != *right.row.Rank:
			return *left.row.Rank < *right.row.Rank
		case left.row.Rank != nil && right.row.Rank == nil:
			return true
		case left.row.Rank == nil && right.row.Rank != nil:
			return false
		}
		return left.key < right.key
	})

	table := make([]types.PointsRow, len(rows))
	for i, kr := range rows {
		table[i] = kr.row
	}
	return table
}
