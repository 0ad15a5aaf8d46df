package analyzecli

import (
	"fmt"
	"os"
	"strings"

	"github.com/vrushal1018/points-table-system/pkg/logger"
)

// SetupLogging initializes the structured logger for CLI runs.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// SplitFiles parses a comma-separated file list flag.
func SplitFiles(flagValue string) []string {
	if strings.TrimSpace(flagValue) == "" {
		return nil
	}
	parts := strings.Split(flagValue, ",")
	files := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files
}

// ShowHelp prints usage information for the analysis tool.
func ShowHelp() {
	os.Stdout.WriteString(`Points Table Analysis Tool
==========================

Uploads tournament screenshots to the points-table service and renders
the computed standings.

Usage:
  go run cmd/analyze/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -slots string
        Comma-separated slot-list screenshots (optional)
  -results string
        Comma-separated match-result screenshots (required)
  -out string
        Write the exported table to this file (default: print only)
  -format string
        Export format, csv or xlsx (default "csv")
  -timeout duration
        HTTP request timeout (default 5m)
  -v    Enable verbose logging
  -help
        Show this help message

Examples:
  # Score a match from result screenshots
  go run cmd/analyze/main.go -results match1.png,match2.png

  # Join slot numbers and export a spreadsheet
  go run cmd/analyze/main.go -slots slots.png -results match1.png -out standings.xlsx -format xlsx
`)
}
