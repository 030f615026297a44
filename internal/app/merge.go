package service

import (
	"context"
	"time"

	"github.com/okian/secopvotes/internal/domain/merge"
	"github.com/okian/secopvotes/pkg/logger"
)

// Merge joins the procurement and electoral tables written by the previous
// stages, re-reading both from disk, and writes the merged table together
// with the unmatched-geography report.
func (s *Service) Merge(ctx context.Context) (merge.Report, error) {
	log := s.logger.Named("merge")
	started := time.Now()

	procurement, err := readRequired(s.cfg.Outputs.Procurement)
	if err != nil {
		return merge.Report{}, err
	}
	elections, err := readRequired(s.cfg.Outputs.Electoral)
	if err != nil {
		return merge.Report{}, err
	}

	res, err := merge.Merge(procurement, elections)
	if err != nil {
		return merge.Report{}, err
	}
	rep := res.Report
	if rep.AmbiguousKeys > 0 {
		log.Warn(ctx, "electoral locations repeated within one year, rows multiply on join",
			logger.Int("ambiguous", rep.AmbiguousKeys))
	}

	if err := s.publish(ctx, log, "merged", s.cfg.Outputs.Merged, res.Merged, started); err != nil {
		return rep, err
	}
	if err := s.publish(ctx, log, "unmatched", s.cfg.Outputs.Unmatched, res.Unmatched, started); err != nil {
		return rep, err
	}
	s.metrics.RecordMerge(rep.MergedRows, rep.UnmatchedKeys, rep.AmbiguousKeys)
	s.metrics.RecordExcluded("merge", "placeholder", rep.PlaceholderRows)

	log.Info(ctx, "merge summary",
		logger.Int("procurement_rows", rep.ProcurementRows),
		logger.Int("matched", rep.MatchedRows),
		logger.Int("merged_rows", rep.MergedRows),
		logger.Int("unmatched_rows", rep.UnmatchedRows),
		logger.Int("placeholder_rows", rep.PlaceholderRows),
		logger.Int("unmatched_keys", rep.UnmatchedKeys),
		logger.Duration("took", time.Since(started)),
	)
	return rep, nil
}
