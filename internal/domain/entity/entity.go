// Package entity derives one descriptive summary per contracting entity.
package entity

import (
	"sort"
	"strings"

	"github.com/okian/secopvotes/internal/domain/dedupe"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/window"
)

// DefaultMinContracts is the minimum number of distinct main-window processes.
const DefaultMinContracts = 2

//nolint:gochecknoglobals // frozen lookup table
var municipalMarkers = []string{"alcaldia", "alcaldía", "municipio"}

// Aggregation is the outcome of Aggregate.
type Aggregation struct {
	// Summaries holds one row per retained entity, ordered by NIT.
	Summaries []model.EntitySummary
	// Counts maps every entity seen in the window to its distinct process count.
	Counts map[int64]int
	// Records are the window records of retained entities, in input order.
	Records []model.ContractRecord
}

// Aggregate restricts records to w, keeps entities with at least minContracts
// distinct processes and describes each from its most authoritative record.
func Aggregate(records []model.ContractRecord, w window.Window, minContracts int) Aggregation {
	if minContracts < 1 {
		minContracts = DefaultMinContracts
	}
	inWindow := window.Apply(records, w)

	counter := dedupe.NewCounter[int64]()
	for _, r := range inWindow {
		counter.Add(r.EntityNIT, r.ProcessID)
	}
	counts := counter.Counts()

	retained := make([]model.ContractRecord, 0, len(inWindow))
	for _, r := range inWindow {
		if counts[r.EntityNIT] >= minContracts {
			retained = append(retained, r)
		}
	}

	return Aggregation{
		Summaries: describe(retained, counts),
		Counts:    counts,
		Records:   retained,
	}
}

// IsMunicipal reports whether an entity name looks like a municipal government.
func IsMunicipal(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range municipalMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// describe picks the first record per entity after ordering SECOP II ahead of SECOP I.
func describe(records []model.ContractRecord, counts map[int64]int) []model.EntitySummary {
	ordered := make([]model.ContractRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source.Authority() > ordered[j].Source.Authority()
	})

	seen := make(map[int64]struct{}, len(counts))
	out := make([]model.EntitySummary, 0, len(counts))
	for _, r := range ordered {
		if _, ok := seen[r.EntityNIT]; ok {
			continue
		}
		seen[r.EntityNIT] = struct{}{}
		out = append(out, model.EntitySummary{
			NIT:          r.EntityNIT,
			Name:         r.EntityName,
			Department:   r.Department,
			Municipality: r.Municipality,
			Municipal:    IsMunicipal(r.EntityName),
			Contracts:    counts[r.EntityNIT],
			Source:       r.Source,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NIT < out[j].NIT })
	return out
}
