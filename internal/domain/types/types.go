// Package types contains common types shared with the API layer.
package types

// PointsRow is one row of the exported points table. SlotNo is nil in the
// rank-only pipeline; Rank is nil when a slot has no matched result.
type PointsRow struct {
	SlotNo         *int     `json:"slot_no"`
	TeamMembers    []string `json:"team_members"`
	TotalFinishes  int      `json:"total_finishes"`
	PositionPoints int      `json:"position_points"`
	TotalPoints    int      `json:"total_points"`
	Rank           *int     `json:"rank"`
}
