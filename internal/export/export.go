// Package export serializes a ranked points table to downloadable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vrushal1018/points-table-system/internal/domain/types"
)

// Format names accepted by the HTTP layer and the CLI.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var header = []string{"Slot No", "Team Members", "Finishes", "Position Points", "Total Points"}

// Filename returns the canonical artifact name for a format.
func Filename(format string) string {
	return "points_table." + format
}

// CSV renders the table as UTF-8 comma-separated text. Team member lists
// are joined into a single field; the writer quotes it because of the
// embedded commas. Row order is preserved.
func CSV(rows []types.PointsRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	for _, row := range rows {
		record := []string{
			slotNoCell(row.SlotNo),
			strings.Join(row.TeamMembers, ", "),
			strconv.Itoa(row.TotalFinishes),
			strconv.Itoa(row.PositionPoints),
			strconv.Itoa(row.TotalPoints),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the table as a single-sheet spreadsheet with the same
// columns as the CSV artifact.
func XLSX(rows []types.PointsRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}

	for i, row := range rows {
		values := []any{
			slotNoCell(row.SlotNo),
			strings.Join(row.TeamMembers, ", "),
			row.TotalFinishes,
			row.PositionPoints,
			row.TotalPoints,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return buf.Bytes(), nil
}

func slotNoCell(slotNo *int) string {
	if slotNo == nil {
		return ""
	}
	return strconv.Itoa(*slotNo)
}
