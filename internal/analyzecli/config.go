package analyzecli

import "time"

// Config holds configuration for one analysis run.
type Config struct {
	BaseURL     string        // Base URL of the service
	SlotFiles   []string      // Slot-list screenshots, optional
	ResultFiles []string      // Match-result screenshots
	OutputFile  string        // Artifact path; empty means table-only
	Format      string        // Export format: csv or xlsx
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Enable verbose logging
}

// SlotRecord mirrors the slot shape returned by the analyze endpoints.
type SlotRecord struct {
	SlotNo      int      `json:"slot_no"`
	TeamMembers []string `json:"team_members"`
}

// ResultRecord mirrors the result shape returned by the analyze endpoints.
type ResultRecord struct {
	Rank          int      `json:"rank"`
	TeamMembers   []string `json:"team_members"`
	Finishes      []int    `json:"finishes"`
	TotalFinishes int      `json:"total_finishes"`
}

// PointsRow mirrors one row of the computed points table.
type PointsRow struct {
	SlotNo         *int     `json:"slot_no"`
	TeamMembers    []string `json:"team_members"`
	TotalFinishes  int      `json:"total_finishes"`
	PositionPoints int      `json:"position_points"`
	TotalPoints    int      `json:"total_points"`
	Rank           *int     `json:"rank"`
}

// Stats holds run statistics for the final summary.
type Stats struct {
	SlotImages   int
	ResultImages int
	SlotsFound   int
	TeamsScored  int
	StartTime    time.Time
	Duration     time.Duration
}
