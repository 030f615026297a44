// Package service runs the pipeline stages: procurement concentration,
// electoral comparison and the cross-domain merge. Stages run one after
// another on a single goroutine and hand data over through CSV files.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/secopvotes/internal/adapters/sqlite"
	"github.com/okian/secopvotes/internal/adapters/tabular"
	"github.com/okian/secopvotes/internal/config"
	"github.com/okian/secopvotes/internal/domain/electoral"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/pkg/logger"
	"github.com/okian/secopvotes/pkg/metrics"
)

// Service runs pipeline stages against one configuration.
type Service struct {
	cfg     *config.Config
	logger  logger.Logger
	metrics *metrics.Manager
	runID   string
	roster  *electoral.Roster

	store *sqlite.Store
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager stages report to.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// New constructs a Service. cfg must already be validated.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		runID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	s.roster = electoral.DefaultRoster().Extend(cfg.Electoral.ExtraParties...)
	return s
}

// RunID identifies this run in logs, metrics and the snapshot.
func (s *Service) RunID() string { return s.runID }

// Run executes stage, or every stage in order for config.StageAll. The
// context is checked between stages; a stage in progress is never abandoned
// halfway through writing its output.
func (s *Service) Run(ctx context.Context, stage string) (err error) {
	steps, err := s.plan(stage)
	if err != nil {
		return err
	}

	if s.cfg.SQLite.Path != "" {
		if s.store, err = sqlite.Open(ctx, s.cfg.SQLite.Path); err != nil {
			return err
		}
		defer func() {
			if cerr := s.store.Close(); cerr != nil && err == nil {
				err = cerr
			}
			s.store = nil
		}()
	}

	s.logger.Info(ctx, "pipeline started", logger.String("stage", stage), logger.Int("steps", len(steps)))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			s.logger.Warn(ctx, "pipeline aborted", logger.String("before", step.name), logger.Error(err))
			return err
		}
		started := time.Now()
		if err := step.run(ctx); err != nil {
			s.logger.Error(ctx, "stage failed", logger.String("stage", step.name), logger.Error(err))
			return fmt.Errorf("%s: %w", step.name, err)
		}
		s.metrics.ObserveStage(step.name, time.Since(started))
	}

	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			return err
		}
		s.logger.Info(ctx, "metrics written", logger.String("path", path))
	}
	s.logger.Info(ctx, "pipeline finished", logger.String("stage", stage))
	return nil
}

type step struct {
	name string
	run  func(context.Context) error
}

func (s *Service) plan(stage string) ([]step, error) {
	procurement := step{config.StageProcurement, func(ctx context.Context) error { _, err := s.Procurement(ctx); return err }}
	elections := step{config.StageElectoral, func(ctx context.Context) error { _, err := s.Electoral(ctx); return err }}
	merged := step{config.StageMerge, func(ctx context.Context) error { _, err := s.Merge(ctx); return err }}

	switch stage {
	case config.StageAll, "":
		return []step{procurement, elections, merged}, nil
	case config.StageProcurement:
		return []step{procurement}, nil
	case config.StageElectoral:
		return []step{elections}, nil
	case config.StageMerge:
		return []step{merged}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
}

// readRequired loads a CSV that the stage cannot run without.
func readRequired(path string) (*model.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrMissingInput)
	}
	t, err := tabular.ReadCSV(path)
	if errors.Is(err, tabular.ErrMissingInput) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	return t, err
}

// readOptional loads a CSV that may be absent; a nil table means absent.
func readOptional(path string) (*model.Table, error) {
	if path == "" {
		return nil, nil
	}
	t, err := tabular.ReadCSV(path)
	if errors.Is(err, tabular.ErrMissingInput) {
		return nil, nil
	}
	return t, err
}

// publish writes t to path and, when a snapshot is open, into table name.
func (s *Service) publish(ctx context.Context, log logger.Logger, name, path string, t *model.Table, started time.Time) error {
	if err := tabular.WriteCSV(path, t); err != nil {
		return err
	}
	log.Info(ctx, "table written", logger.String("path", path), logger.Int("rows", t.Len()))
	if s.store == nil {
		return nil
	}
	if err := s.store.WriteTable(ctx, name, t); err != nil {
		return err
	}
	return s.store.RecordRun(ctx, s.runID, name, started, t.Len())
}
