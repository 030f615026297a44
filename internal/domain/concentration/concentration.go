// Package concentration computes supplier concentration (HHI) and
// simplified-procedure shares per contracting entity and time window.
package concentration

import (
	"math"
	"sort"

	"github.com/okian/secopvotes/internal/domain/dedupe"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/window"
)

// Scale converts an HHI in [0,1] to the antitrust 0..10,000 scale.
const Scale = 10_000

// Shares returns each value's fraction of the total. ok is false when the
// total is not positive.
func Shares(values []float64) ([]float64, bool) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return nil, false
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out, true
}

// HHI returns the sum of squared shares of values.
func HHI(values []float64) (float64, bool) {
	shares, ok := Shares(values)
	if !ok {
		return 0, false
	}
	h := 0.0
	for _, s := range shares {
		h += s * s
	}
	return h, true
}

// Scaled converts an HHI to the 10,000 scale, rounding half to even.
func Scaled(h float64) int64 { return int64(math.RoundToEven(h * Scale)) }

type entityAcc struct {
	suppliers       map[string]float64
	supplierOrder   []string
	total           float64
	simplifiedValue float64
}

// Compute returns one result per entity with positive total value inside w,
// ordered by NIT. Contracts with no provider identifier form one supplier.
func Compute(records []model.ContractRecord, w window.Window) []model.ConcentrationResult {
	inWindow := window.Apply(records, w)

	accs := make(map[int64]*entityAcc)
	processes := dedupe.NewCounter[int64]()
	simplified := dedupe.NewCounter[int64]()
	for _, r := range inWindow {
		acc, ok := accs[r.EntityNIT]
		if !ok {
			acc = &entityAcc{suppliers: make(map[string]float64)}
			accs[r.EntityNIT] = acc
		}
		if _, ok := acc.suppliers[r.ProviderNIT]; !ok {
			acc.supplierOrder = append(acc.supplierOrder, r.ProviderNIT)
		}
		acc.suppliers[r.ProviderNIT] += r.AwardValue
		acc.total += r.AwardValue

		processes.Add(r.EntityNIT, r.ProcessID)
		if IsSimplified(r.Modality) {
			simplified.Add(r.EntityNIT, r.ProcessID)
			acc.simplifiedValue += r.AwardValue
		}
	}

	out := make([]model.ConcentrationResult, 0, len(accs))
	for nit, acc := range accs {
		values := make([]float64, len(acc.supplierOrder))
		for i, p := range acc.supplierOrder {
			values[i] = acc.suppliers[p]
		}
		h, ok := HHI(values)
		if !ok {
			continue
		}
		n := processes.Count(nit)
		s := simplified.Count(nit)
		out = append(out, model.ConcentrationResult{
			NIT:                 nit,
			Window:              w.Name,
			Suppliers:           len(values),
			HHI:                 h,
			HHI10000:            Scaled(h),
			Processes:           n,
			SimplifiedProcesses: s,
			TotalValue:          acc.total,
			SimplifiedValue:     acc.simplifiedValue,
			PctSimplifiedCount:  model.Ratio(float64(s), float64(n)),
			PctSimplifiedValue:  model.Ratio(acc.simplifiedValue, acc.total),
			LogTotalValue:       model.LogValue(acc.total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NIT < out[j].NIT })
	return out
}

// Index keys results by NIT.
func Index(results []model.ConcentrationResult) map[int64]model.ConcentrationResult {
	m := make(map[int64]model.ConcentrationResult, len(results))
	for _, r := range results {
		m[r.NIT] = r
	}
	return m
}
