package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/samplegen"
	"github.com/okian/teamiq/pkg/logger"
)

// Default configuration constants.
const (
	defaultPractices    = 200
	defaultMembers      = 6
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultWait         = 2 * time.Minute
	defaultPollInterval = 250 * time.Millisecond
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		practices   = flag.Int("practices", defaultPractices, "Number of practices to generate")
		members     = flag.Int("members", defaultMembers, "Team size per practice")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait        = flag.Duration("wait", defaultWait, "How long to wait for jobs to finish")
		poll        = flag.Duration("poll", defaultPollInterval, "Delay between job status checks")
		seed        = flag.Uint64("seed", 1, "Generator seed")
		catalogPath = flag.String("catalog", "", "Service catalog YAML (default: embedded)")
		outputFile  = flag.String("output", "", "Write generated practices to this JSON file")
		logFile     = flag.String("log", "", "Log file (default: sample_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplegen.ShowHelp(os.Stdout)
		return 0
	}

	closeLog, err := samplegen.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("failed to set up logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()
	log := logger.Get()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.Error(err))
		return 1
	}

	cfg := &samplegen.Config{
		BaseURL:      *baseURL,
		Practices:    *practices,
		Members:      *members,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: *poll,
		Wait:         *wait,
		Seed:         *seed,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	}
	if _, err := samplegen.Run(ctx, cfg, cat); err != nil {
		log.Error(ctx, "sample run failed", logger.Error(err))
		return 1
	}
	return 0
}
