package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/secopvotes/internal/adapters/tabular"
	"github.com/okian/secopvotes/internal/domain/concentration"
	"github.com/okian/secopvotes/internal/domain/eligibility"
	"github.com/okian/secopvotes/internal/domain/entity"
	"github.com/okian/secopvotes/internal/domain/geo"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/types"
	"github.com/okian/secopvotes/internal/domain/window"
	"github.com/okian/secopvotes/pkg/logger"
)

// ProcurementReport summarizes one procurement stage.
type ProcurementReport struct {
	Loaded          map[types.Source]int
	Excluded        eligibility.Tally
	OutsideCorpus   int
	Eligible        int
	Entities        int
	Recovery        geo.Recovery
	MainResults     int
	ControlResults  int
	GazetteerLoaded bool
}

// Procurement filters both SECOP sources, aggregates entities, recovers
// missing locations and writes the concentration table.
func (s *Service) Procurement(ctx context.Context) (ProcurementReport, error) {
	log := s.logger.Named("procurement")
	started := time.Now()
	rep := ProcurementReport{Loaded: map[types.Source]int{}, Excluded: eligibility.Tally{}}

	corpus, mainW, ctrl, err := s.windows()
	if err != nil {
		return rep, err
	}

	var awarded []model.ContractRecord
	for _, src := range []struct {
		source types.Source
		path   string
	}{
		{types.SourceSECOPI, s.cfg.Inputs.SECOPI},
		{types.SourceSECOPII, s.cfg.Inputs.SECOPII},
	} {
		t, err := readOptional(src.path)
		if err != nil {
			return rep, err
		}
		if t == nil {
			log.Warn(ctx, "source file not found, skipping", logger.String("source", src.source.String()), logger.String("path", src.path))
			continue
		}
		recs, hasAwarded, err := tabular.Contracts(t, src.source)
		if err != nil {
			return rep, fmt.Errorf("%s: %w", src.path, err)
		}
		kept, tally := eligibility.FilterAwarded(recs, src.source, hasAwarded)
		rep.Loaded[src.source] = len(recs)
		rep.Excluded.Merge(tally)
		s.metrics.RecordLoaded(src.source.String(), len(recs))
		log.Info(ctx, "source filtered",
			logger.String("source", src.source.String()),
			logger.Int("rows", len(recs)),
			logger.Int("kept", len(kept)),
			logger.Bool("awarded_column", hasAwarded),
		)
		awarded = append(awarded, kept...)
	}
	if len(rep.Loaded) == 0 {
		return rep, fmt.Errorf("%w: neither %s nor %s exists", ErrMissingInput, s.cfg.Inputs.SECOPI, s.cfg.Inputs.SECOPII)
	}

	inCorpus := window.Apply(awarded, corpus)
	rep.OutsideCorpus = len(awarded) - len(inCorpus)
	gated, tally := eligibility.Gate(inCorpus)
	rep.Excluded.Merge(tally)
	rep.Eligible = len(gated)

	agg := entity.Aggregate(gated, mainW, s.cfg.MinContracts)
	rep.Entities = len(agg.Summaries)
	log.Info(ctx, "entities aggregated",
		logger.Int("seen", len(agg.Counts)),
		logger.Int("retained", rep.Entities),
		logger.Int("min_contracts", s.cfg.MinContracts),
	)

	summaries := agg.Summaries
	gaz, err := s.gazetteer(ctx, log)
	if err != nil {
		return rep, err
	}
	if gaz != nil {
		rep.GazetteerLoaded = true
		summaries, rep.Recovery = geo.Recover(summaries, gaz)
		log.Info(ctx, "locations recovered",
			logger.Int("candidates", rep.Recovery.Candidates),
			logger.Int("recovered", rep.Recovery.Recovered),
		)
	}

	mainRes := concentration.Compute(agg.Records, mainW)
	ctrlRes := concentration.Compute(gated, ctrl)
	rep.MainResults, rep.ControlResults = len(mainRes), len(ctrlRes)

	table := tabular.ProcurementTable(summaries, mainW.Label(), concentration.Index(mainRes), concentration.Index(ctrlRes))
	if err := s.publish(ctx, log, "procurement", s.cfg.Outputs.Procurement, table, started); err != nil {
		return rep, err
	}

	for reason, n := range rep.Excluded {
		s.metrics.RecordExcluded("procurement", string(reason), n)
	}
	s.metrics.RecordExcluded("procurement", "window", rep.OutsideCorpus)
	s.metrics.RecordEntities(rep.Entities)
	s.metrics.RecordRecovered(rep.Recovery.Recovered)
	s.metrics.RecordConcentrationRows(mainW.Name, rep.MainResults)
	s.metrics.RecordConcentrationRows(ctrl.Name, rep.ControlResults)

	log.Info(ctx, "procurement summary",
		logger.Int("eligible", rep.Eligible),
		logger.Int("excluded", rep.Excluded.Total()),
		logger.Int("outside_corpus", rep.OutsideCorpus),
		logger.Int("rows", table.Len()),
		logger.Duration("took", time.Since(started)),
	)
	return rep, nil
}

func (s *Service) windows() (window.Window, window.Window, window.Window, error) {
	corpus, err := s.cfg.Windows.Corpus.Resolve(window.Corpus().Name)
	if err != nil {
		return window.Window{}, window.Window{}, window.Window{}, err
	}
	mainW, err := s.cfg.Windows.Main.Resolve(window.Main().Name)
	if err != nil {
		return window.Window{}, window.Window{}, window.Window{}, err
	}
	ctrl, err := s.cfg.Windows.Control.Resolve(window.Control().Name)
	if err != nil {
		return window.Window{}, window.Window{}, window.Window{}, err
	}
	return corpus, mainW, ctrl, nil
}

// gazetteer loads the municipality reference list. A missing file disables
// recovery and returns nil.
func (s *Service) gazetteer(ctx context.Context, log logger.Logger) (*geo.Gazetteer, error) {
	t, err := readOptional(s.cfg.Inputs.Gazetteer)
	if err != nil {
		return nil, err
	}
	if t == nil {
		log.Warn(ctx, "gazetteer not found, skipping location recovery", logger.String("path", s.cfg.Inputs.Gazetteer))
		return nil, nil
	}
	entries, err := tabular.Gazetteer(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.Inputs.Gazetteer, err)
	}
	g := geo.NewGazetteer(entries, geo.WithMinMatchLength(s.cfg.MinMatchLength))
	log.Debug(ctx, "gazetteer loaded", logger.Int("names", g.Len()), logger.Int("ambiguous", g.Ambiguous()))
	return g, nil
}
