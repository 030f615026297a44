// Package eligibility selects awarded contract records per source-specific rules.
package eligibility

import (
	"strings"
	"unicode"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/types"
)

// Reason names why a record was excluded.
type Reason string

// Exclusion reasons.
const (
	ReasonStatus     Reason = "status"
	ReasonNotAwarded Reason = "not_awarded"
	ReasonValue      Reason = "value"
	ReasonDate       Reason = "date"
	ReasonEntity     Reason = "entity_id"
)

// AwardedFlag is stamped on rows whose source filter decided the award from
// status alone: every SECOP I row and SECOP II rows from exports without an
// awarded column.
const AwardedFlag = "Si"

//nolint:gochecknoglobals // frozen lookup tables
var (
	secopIStatuses  = set("Celebrado", "Liquidado", "Terminado", "Adjudicado", "Ejecución", "Tramitado")
	secopIIStatuses = set("Adjudicado", "Celebrado", "Seleccionado")
	truthyFlags     = set("si", "sí", "true", "1")
)

// Tally counts exclusions per reason.
type Tally map[Reason]int

// Total returns the number of excluded records.
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Merge adds other's counts into t.
func (t Tally) Merge(other Tally) {
	for r, c := range other {
		t[r] += c
	}
}

// FilterAwarded keeps the records of one source that represent awards.
// awardedColumn reports whether the SECOP II export carried an explicit awarded flag;
// it is ignored for SECOP I.
func FilterAwarded(records []model.ContractRecord, source types.Source, awardedColumn bool) ([]model.ContractRecord, Tally) {
	out := make([]model.ContractRecord, 0, len(records))
	tally := Tally{}
	for _, r := range records {
		if reason, ok := sourceRule(r, source, awardedColumn); !ok {
			tally[reason]++
			continue
		}
		if !positiveValue(r) {
			tally[ReasonValue]++
			continue
		}
		if !r.HasDate() {
			tally[ReasonDate]++
			continue
		}
		if stampAwarded(source, awardedColumn) {
			r.Awarded = AwardedFlag
		}
		r.Source = source
		out = append(out, r)
	}
	return out, tally
}

// Gate re-applies the cross-source invariant after harmonization: positive value,
// truthy awarded flag, present award date and a well-formed entity identifier.
func Gate(records []model.ContractRecord) ([]model.ContractRecord, Tally) {
	out := make([]model.ContractRecord, 0, len(records))
	tally := Tally{}
	for _, r := range records {
		switch {
		case !r.HasDate():
			tally[ReasonDate]++
		case !positiveValue(r):
			tally[ReasonValue]++
		case !IsTruthy(r.Awarded):
			tally[ReasonNotAwarded]++
		case r.EntityNIT <= 0:
			tally[ReasonEntity]++
		default:
			out = append(out, r)
		}
	}
	return out, tally
}

// IsTruthy reports whether an awarded flag means yes.
func IsTruthy(flag string) bool {
	_, ok := truthyFlags[strings.ToLower(strings.TrimSpace(flag))]
	return ok
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

func sourceRule(r model.ContractRecord, source types.Source, awardedColumn bool) (Reason, bool) {
	switch source {
	case types.SourceSECOPI:
		_, ok := secopIStatuses[TitleCase(strings.TrimSpace(r.Status))]
		return ReasonStatus, ok
	case types.SourceSECOPII:
		if awardedColumn {
			return ReasonNotAwarded, IsTruthy(r.Awarded)
		}
		_, ok := secopIIStatuses[strings.TrimSpace(r.Status)]
		return ReasonStatus, ok
	default:
		return ReasonStatus, false
	}
}

func stampAwarded(source types.Source, awardedColumn bool) bool {
	return source == types.SourceSECOPI || (source == types.SourceSECOPII && !awardedColumn)
}

func positiveValue(r model.ContractRecord) bool { return r.HasValue && r.AwardValue > 0 }

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
