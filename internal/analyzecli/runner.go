package analyzecli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vrushal1018/points-table-system/pkg/logger"
)

const artifactPermission = 0o600

// Run drives one end-to-end analysis: upload the screenshots, fetch the
// computed points table, render it, and optionally download an artifact.
func Run(ctx context.Context, config *Config) error {
	if len(config.ResultFiles) == 0 {
		return errors.New("no result screenshots given; pass -results")
	}

	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.Timeout)

	var slots []SlotRecord
	if len(config.SlotFiles) > 0 {
		stats.SlotImages = len(config.SlotFiles)
		log.Info(ctx, "analyzing slot screenshots", logger.Int("images", len(config.SlotFiles)))
		if err := client.PostImages(ctx, config.BaseURL+"/api/analyze-slots", config.SlotFiles, &slots); err != nil {
			return fmt.Errorf("slot analysis failed: %w", err)
		}
		stats.SlotsFound = len(slots)
	}

	stats.ResultImages = len(config.ResultFiles)
	log.Info(ctx, "analyzing result screenshots", logger.Int("images", len(config.ResultFiles)))
	var results map[string]ResultRecord
	if err := client.PostImages(ctx, config.BaseURL+"/api/analyze-results", config.ResultFiles, &results); err != nil {
		return fmt.Errorf("result analysis failed: %w", err)
	}

	payload := map[string]interface{}{"results": results}
	if len(slots) > 0 {
		payload["slots"] = slots
	}

	var rows []PointsRow
	if err := client.PostJSON(ctx, config.BaseURL+"/api/points-table", payload, &rows); err != nil {
		return fmt.Errorf("points table failed: %w", err)
	}
	stats.TeamsScored = len(rows)

	renderTable(rows)

	if config.OutputFile != "" {
		url := config.BaseURL + "/api/export?format=" + config.Format
		artifact, err := client.Download(ctx, url, payload)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if err := os.WriteFile(config.OutputFile, artifact, artifactPermission); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.OutputFile, err)
		}
		log.Info(ctx, "artifact written",
			logger.String("path", config.OutputFile),
			logger.String("format", config.Format),
			logger.Int("bytes", len(artifact)),
		)
	}

	stats.Duration = time.Since(stats.StartTime)
	if config.Verbose {
		log.Info(ctx, "analysis finished",
			logger.Int("slotImages", stats.SlotImages),
			logger.Int("resultImages", stats.ResultImages),
			logger.Int("slotsFound", stats.SlotsFound),
			logger.Int("teamsScored", stats.TeamsScored),
			logger.Duration("elapsed", stats.Duration),
		)
	}
	return nil
}

// renderTable prints the points table to stdout.
func renderTable(rows []PointsRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Slot No", "Team Members", "Finishes", "Position Points", "Total Points"})
	for i, row := range rows {
		slotNo := ""
		if row.SlotNo != nil {
			slotNo = strconv.Itoa(*row.SlotNo)
		}
		t.AppendRow(table.Row{
			i + 1,
			slotNo,
			strings.Join(row.TeamMembers, ", "),
			row.TotalFinishes,
			row.PositionPoints,
			row.TotalPoints,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
