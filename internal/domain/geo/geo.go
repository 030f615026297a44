// Package geo recovers missing entity locations from a municipality gazetteer.
package geo

import (
	"sort"
	"strings"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// DefaultMinMatchLength rejects short municipality names that would match by accident.
const DefaultMinMatchLength = 4

// Gazetteer maps normalized municipality names to their department. Only
// names that are unique across the whole reference table are kept.
type Gazetteer struct {
	entries   []model.GazetteerEntry // sorted by municipality
	index     map[string]string
	ambiguous int
	minLen    int
}

// Option applies a configuration option to a Gazetteer.
type Option func(*Gazetteer)

// WithMinMatchLength sets the minimum municipality name length used for matching.
func WithMinMatchLength(n int) Option {
	return func(g *Gazetteer) {
		if n > 0 {
			g.minLen = n
		}
	}
}

// NewGazetteer normalizes raw reference rows and drops municipality names
// shared by more than one row.
func NewGazetteer(raw []model.GazetteerEntry, opts ...Option) *Gazetteer {
	g := &Gazetteer{minLen: DefaultMinMatchLength}
	for _, opt := range opts {
		opt(g)
	}

	counts := make(map[string]int, len(raw))
	depts := make(map[string]string, len(raw))
	for _, e := range raw {
		mun := textnorm.Normalize(e.Municipality, types.KindMunicipality)
		if mun == "" {
			continue
		}
		counts[mun]++
		depts[mun] = textnorm.Normalize(e.Department, types.KindDepartment)
	}

	g.index = make(map[string]string, len(counts))
	for mun, n := range counts {
		if n != 1 {
			g.ambiguous++
			continue
		}
		g.index[mun] = depts[mun]
		g.entries = append(g.entries, model.GazetteerEntry{Municipality: mun, Department: depts[mun]})
	}
	sort.Slice(g.entries, func(i, j int) bool { return g.entries[i].Municipality < g.entries[j].Municipality })
	return g
}

// Len returns the number of usable municipality names.
func (g *Gazetteer) Len() int { return len(g.entries) }

// Ambiguous returns how many municipality names were dropped as non-unique.
func (g *Gazetteer) Ambiguous() int { return g.ambiguous }

// Department returns the department of an exact, already normalized municipality name.
func (g *Gazetteer) Department(municipality string) (string, bool) {
	d, ok := g.index[municipality]
	return d, ok
}

// Match finds the longest municipality name contained in the normalized
// entity name. Among equally long names the alphabetically first wins.
func (g *Gazetteer) Match(entityName string) (model.GazetteerEntry, bool) {
	name := textnorm.Normalize(entityName, types.KindMunicipality)
	if name == "" {
		return model.GazetteerEntry{}, false
	}
	var best model.GazetteerEntry
	for _, e := range g.entries {
		if len(e.Municipality) < g.minLen || len(e.Municipality) <= len(best.Municipality) {
			continue
		}
		if strings.Contains(name, e.Municipality) {
			best = e
		}
	}
	return best, best.Municipality != ""
}

// Recovery reports what Recover did.
type Recovery struct {
	Candidates int // entities with a missing or placeholder municipality
	Recovered  int // of those, entities whose municipality was filled in
}

// Recover fills placeholder municipalities (and, when also missing, departments)
// from the entity name. Entities without a match are returned unchanged.
func Recover(entities []model.EntitySummary, g *Gazetteer) ([]model.EntitySummary, Recovery) {
	out := make([]model.EntitySummary, len(entities))
	copy(out, entities)

	var rep Recovery
	if g == nil {
		return out, rep
	}
	for i := range out {
		e := &out[i]
		if !textnorm.IsPlaceholder(e.Municipality) {
			continue
		}
		rep.Candidates++
		m, ok := g.Match(e.Name)
		if !ok {
			continue
		}
		e.Municipality = m.Municipality
		if textnorm.IsPlaceholder(e.Department) {
			e.Department = m.Department
		}
		rep.Recovered++
	}
	return out, rep
}
