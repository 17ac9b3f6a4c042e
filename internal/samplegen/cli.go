package samplegen

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/teamiq/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging sends log output to both stdout and a file. An empty logFile
// gets a timestamped name. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		logFile = "sample_log_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the sample practice tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Sample Practice Tool
====================

Generates synthetic practices, submits them to the job API and verifies
the reports.

Usage:
  go run ./cmd/sample-practice [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -practices int      Number of practices to generate (default 200)
  -members int        Team size per practice (default 6)
  -workers int        Number of concurrent submitters (default CPU cores * 2)
  -timeout duration   HTTP request timeout (default 30s)
  -wait duration      How long to wait for jobs to finish (default 2m)
  -poll duration      Delay between job status checks (default 250ms)
  -seed uint          Generator seed (default 1)
  -catalog string     Service catalog YAML (default: embedded)
  -output string      Write generated practices to this JSON file
  -log string         Log file (default: sample_log_TIMESTAMP.log)
  -verbose            Enable verbose logging
  -help               Show this help message

Examples:
  go run ./cmd/sample-practice -practices 1000 -workers 16
  go run ./cmd/sample-practice -seed 42 -output practices.json
`)
}
