package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	service "github.com/okian/secopvotes/internal/app"
	"github.com/okian/secopvotes/internal/config"
	"github.com/okian/secopvotes/pkg/logger"
	"github.com/okian/secopvotes/pkg/metrics"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, loads configuration and executes the selected stages.
// It returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("secopvotes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML configuration file (default: $SECOPVOTES_CONFIG)")
		stage      = fs.String("stage", "", "Stage to run: all, procurement, electoral or merge (default: config stage)")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	runID := uuid.NewString()

	// Initialize logging
	if err := logger.Init(logger.WithWriter(stderr), logger.WithRunID(runID)); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return exitFailure
	}
	if *stage != "" {
		cfg.Stage = *stage
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(cfg,
		service.WithLogger(log),
		service.WithRunID(runID),
		service.WithMetrics(metrics.NewManager(metrics.WithConstLabels(map[string]string{"run_id": runID}))),
	)
	if err := svc.Run(ctx, cfg.Stage); err != nil {
		log.Error(ctx, "pipeline failed", logger.String("stage", cfg.Stage), logger.Error(err))
		return exitFailure
	}
	return exitOK
}
