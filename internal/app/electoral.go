package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/secopvotes/internal/adapters/tabular"
	"github.com/okian/secopvotes/internal/domain/electoral"
	"github.com/okian/secopvotes/pkg/logger"
)

// ElectoralReport summarizes one electoral stage.
type ElectoralReport struct {
	Read    int // candidate rows in the input
	Reduced int // rows left after the top-two reduction, when enabled
	electoral.Report
}

// Electoral classifies candidates and writes one comparison row per
// contested municipality.
func (s *Service) Electoral(ctx context.Context) (ElectoralReport, error) {
	log := s.logger.Named("electoral")
	started := time.Now()
	var rep ElectoralReport

	t, err := readRequired(s.cfg.Inputs.Electoral)
	if err != nil {
		return rep, err
	}
	recs, err := tabular.Candidates(t)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", s.cfg.Inputs.Electoral, err)
	}
	rep.Read = len(recs)

	if s.cfg.Electoral.ReduceRaw {
		recs = electoral.ReduceTopTwo(recs)
		rep.Reduced = len(recs)
		log.Info(ctx, "raw results reduced", logger.Int("rows", rep.Read), logger.Int("top_two", rep.Reduced))
	}

	rows, cmp := electoral.Compare(recs, s.roster)
	rep.Report = cmp

	table := tabular.ElectoralTable(rows)
	if err := s.publish(ctx, log, "electoral", s.cfg.Outputs.Electoral, table, started); err != nil {
		return rep, err
	}
	s.metrics.RecordElectionRows(len(rows))
	s.metrics.RecordExcluded("electoral", "uncontested", cmp.Municipalities-cmp.Contested)

	log.Info(ctx, "electoral summary",
		logger.Int("candidates", cmp.Candidates),
		logger.Int("outsiders", cmp.Outsiders),
		logger.Int("municipalities", cmp.Municipalities),
		logger.Int("contested", cmp.Contested),
		logger.Int("roster", s.roster.Len()),
		logger.Duration("took", time.Since(started)),
	)
	return rep, nil
}
