package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/secopvotes/internal/sampledata"
	"github.com/okian/secopvotes/pkg/logger"
)

// Default configuration constants.
const (
	defaultOutDir    = "datasets/02_intermediate"
	defaultContracts = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("sample-data", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		outDir    = fs.String("out", defaultOutDir, "Directory the sample inputs are written to")
		seed      = fs.Int64("seed", sampledata.DefaultSeed, "Random seed; equal seeds produce identical files")
		contracts = fs.Int("contracts", defaultContracts, "Eligible main-window contracts per municipal entity")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return 1
	}
	log := logger.Named("sample-data")

	files, err := sampledata.Write(ctx, *outDir, sampledata.Config{Seed: *seed, ContractsPerEntity: *contracts})
	if err != nil {
		log.Error(ctx, "failed to write sample data", logger.Error(err))
		return 1
	}
	log.Info(ctx, "sample data ready",
		logger.String("secop1", files.SECOPI),
		logger.String("secop2", files.SECOPII),
		logger.String("gazetteer", files.Gazetteer),
		logger.String("electoral", files.Electoral),
		logger.String("electoral_raw", files.ElectoralRaw),
	)
	return 0
}
