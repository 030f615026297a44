// Package window partitions contract records by award date.
package window

import (
	"fmt"
	"time"

	"github.com/okian/secopvotes/internal/domain/model"
)

// Window is a left-inclusive, right-exclusive date range with a label.
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Years builds a window covering calendar years first..last inclusive.
func Years(name string, first, last int) Window {
	return Window{
		Name:  name,
		Start: time.Date(first, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(last+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Label renders the window as "YYYY-YYYY" when it spans whole years.
func (w Window) Label() string {
	last := w.End.AddDate(0, 0, -1)
	if w.Start.YearDay() == 1 && w.End.YearDay() == 1 {
		return fmt.Sprintf("%d-%d", w.Start.Year(), last.Year())
	}
	return fmt.Sprintf("%s..%s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Validate checks the window is non-empty.
func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("window %q: start %s not before end %s", w.Name, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}
	return nil
}

// Apply returns the records whose award date falls inside w. Records without
// a date never match.
func Apply(records []model.ContractRecord, w Window) []model.ContractRecord {
	out := make([]model.ContractRecord, 0, len(records))
	for _, r := range records {
		if r.HasDate() && w.Contains(r.AwardDate) {
			out = append(out, r)
		}
	}
	return out
}

// Corpus restricts the dataset to calendar years 2015-2023.
func Corpus() Window { return Years("corpus", 2015, 2023) }

// Main is the analysis window, calendar years 2020-2023.
func Main() Window { return Years("main", 2020, 2023) }

// Control is [2015-01-01, 2019-01-01). The analysis notes describe it as
// running through September 2019; the literal cutoff is authoritative.
func Control() Window { return Years("ctrl", 2015, 2018) }
