// Package merge joins the procurement and electoral tables on normalized
// (department, municipality) keys and reports unmatched geography.
package merge

import (
	"fmt"

	"github.com/okian/secopvotes/internal/domain/dedupe"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/textnorm"
)

// Column names of the unmatched report.
const (
	ColDeptNorm = "dept_norm"
	ColMunNorm  = "mun_norm"
)

// Keys names the location columns of one side of the join.
type Keys struct {
	Department   string
	Municipality string
}

// Report summarizes a merge.
type Report struct {
	ProcurementRows int // rows read from the procurement table
	MatchedRows     int // procurement rows with at least one electoral match
	MergedRows      int // rows written to the merged table
	UnmatchedRows   int // procurement rows without an electoral match
	PlaceholderRows int // of those, rows whose location can never match
	UnmatchedKeys   int // distinct actionable unmatched locations
	AmbiguousKeys   int // electoral keys with more than one row for the same year
}

// Result holds the merged table, the unmatched-geography report and counts.
type Result struct {
	Merged    *model.Table
	Unmatched *model.Table
	Report    Report
}

type options struct {
	procurement Keys
	electoral   Keys
	year        string
	drop        []string
}

// Option applies a configuration option to Merge.
type Option func(*options)

// WithProcurementKeys overrides the procurement location columns.
func WithProcurementKeys(k Keys) Option { return func(o *options) { o.procurement = k } }

// WithElectoralKeys overrides the electoral location columns.
func WithElectoralKeys(k Keys) Option { return func(o *options) { o.electoral = k } }

// WithYearColumn names the electoral year column used to detect ambiguous keys.
func WithYearColumn(name string) Option { return func(o *options) { o.year = name } }

// WithDroppedColumns lists electoral columns left out of the merged table.
func WithDroppedColumns(cols ...string) Option { return func(o *options) { o.drop = cols } }

// Merge inner-joins procurement with electoral rows on generic-normalized
// department and municipality. Procurement rows without a match feed the
// unmatched report unless their location normalizes to a placeholder.
func Merge(procurement, electoral *model.Table, opts ...Option) (Result, error) {
	o := options{
		procurement: Keys{Department: "departamento_entidad", Municipality: "ciudad_entidad"},
		electoral:   Keys{Department: "Nombre Departamento", Municipality: "Nombre Municipio"},
		year:        "Año",
		drop:        []string{"Código Departamento", "Nombre Departamento", "Código Municipio", "Nombre Municipio"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	pDept, pMun, err := keyColumns(procurement, o.procurement, "procurement")
	if err != nil {
		return Result{}, err
	}
	eDept, eMun, err := keyColumns(electoral, o.electoral, "electoral")
	if err != nil {
		return Result{}, err
	}

	// Index electoral rows by key, keeping file order within a key.
	index := make(map[string][]int)
	perYear := dedupe.New()
	ambiguous := dedupe.New()
	yearCol := electoral.Column(o.year)
	for i := range electoral.Rows {
		k := joinKey(electoral.Cell(i, eDept), electoral.Cell(i, eMun))
		index[k] = append(index[k], i)
		if perYear.SeenAndRecord(k + "|" + electoral.Cell(i, yearCol)) {
			ambiguous.SeenAndRecord(k)
		}
	}

	carried := carriedColumns(procurement, electoral, o.drop)
	header := append([]string(nil), procurement.Header...)
	for _, c := range carried {
		header = append(header, electoral.Header[c])
	}
	merged := model.NewTable(header...)
	unmatched := model.NewTable(o.procurement.Department, o.procurement.Municipality, ColDeptNorm, ColMunNorm)
	seenUnmatched := dedupe.New()

	rep := Report{ProcurementRows: procurement.Len(), AmbiguousKeys: ambiguous.Size()}
	for i, row := range procurement.Rows {
		dept, mun := procurement.Cell(i, pDept), procurement.Cell(i, pMun)
		deptNorm, munNorm := textnorm.Key(dept), textnorm.Key(mun)
		matches := index[deptNorm+"|"+munNorm]
		if len(matches) == 0 {
			rep.UnmatchedRows++
			if textnorm.IsPlaceholder(deptNorm) || textnorm.IsPlaceholder(munNorm) {
				rep.PlaceholderRows++
				continue
			}
			if !seenUnmatched.SeenAndRecord(dept + "\x00" + mun + "\x00" + deptNorm + "\x00" + munNorm) {
				unmatched.Append(dept, mun, deptNorm, munNorm)
			}
			continue
		}
		rep.MatchedRows++
		for _, e := range matches {
			out := make([]string, 0, len(header))
			out = append(out, padded(row, len(procurement.Header))...)
			for _, c := range carried {
				out = append(out, electoral.Cell(e, c))
			}
			merged.Append(out...)
		}
	}
	rep.MergedRows = merged.Len()
	rep.UnmatchedKeys = unmatched.Len()

	return Result{Merged: merged, Unmatched: unmatched, Report: rep}, nil
}

func joinKey(dept, mun string) string { return textnorm.Key(dept) + "|" + textnorm.Key(mun) }

func keyColumns(t *model.Table, k Keys, side string) (int, int, error) {
	d, m := t.Column(k.Department), t.Column(k.Municipality)
	if d < 0 || m < 0 {
		return 0, 0, fmt.Errorf("%s table needs %q and %q: %w", side, k.Department, k.Municipality, ErrMissingColumn)
	}
	return d, m, nil
}

// carriedColumns returns the electoral columns that enter the merged table:
// everything except dropped location columns and names already present.
func carriedColumns(procurement, electoral *model.Table, drop []string) []int {
	skip := dedupe.New()
	for _, d := range drop {
		skip.SeenAndRecord(d)
	}
	for _, h := range procurement.Header {
		skip.SeenAndRecord(h)
	}
	out := make([]int, 0, len(electoral.Header))
	for i, h := range electoral.Header {
		if !skip.Seen(h) {
			out = append(out, i)
		}
	}
	return out
}

func padded(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
