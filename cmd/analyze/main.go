package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/vrushal1018/points-table-system/internal/analyzecli"
)

// Default configuration constants.
const (
	defaultTimeout    = 5 * time.Minute
	defaultRunTimeout = 30 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		slotFiles   = flag.String("slots", "", "Comma-separated slot-list screenshots (optional)")
		resultFiles = flag.String("results", "", "Comma-separated match-result screenshots")
		outputFile  = flag.String("out", "", "Write the exported table to this file")
		format      = flag.String("format", "csv", "Export format: csv or xlsx")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("v", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		analyzecli.ShowHelp()
		return
	}

	if err := analyzecli.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &analyzecli.Config{
		BaseURL:     *baseURL,
		SlotFiles:   analyzecli.SplitFiles(*slotFiles),
		ResultFiles: analyzecli.SplitFiles(*resultFiles),
		OutputFile:  *outputFile,
		Format:      *format,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}

	if err := analyzecli.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Analysis failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
