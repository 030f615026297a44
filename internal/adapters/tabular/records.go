package tabular

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/types"
)

// dateLayouts are tried in order when parsing award dates.
//
//nolint:gochecknoglobals // frozen lookup table
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04:05",
}

// Contracts maps t onto contract records. The second result reports whether
// the file carries an explicit awarded column.
func Contracts(t *model.Table, source types.Source) ([]model.ContractRecord, bool, error) {
	m, err := SECOPSchema.Resolve(t.Header)
	if err != nil {
		return nil, false, err
	}
	out := make([]model.ContractRecord, 0, t.Len())
	for _, row := range t.Rows {
		value, hasValue := ParseValue(m.Get(row, FieldAwardValue))
		src := source
		if src == types.SourceUnknown {
			src = types.ParseSource(m.Get(row, FieldOrigin))
		}
		out = append(out, model.ContractRecord{
			ProcessID:    m.Get(row, FieldProcessID),
			EntityNIT:    ParseNIT(m.Get(row, FieldEntityNIT)),
			EntityName:   m.Get(row, FieldEntityName),
			Department:   m.Get(row, FieldDepartment),
			Municipality: m.Get(row, FieldMunicipality),
			Modality:     m.Get(row, FieldModality),
			Status:       m.Get(row, FieldStatus),
			AwardDate:    ParseDate(m.Get(row, FieldAwardDate)),
			AwardValue:   value,
			HasValue:     hasValue,
			ProviderNIT:  Digits(m.Get(row, FieldProviderNIT)),
			ProviderName: m.Get(row, FieldProviderName),
			Awarded:      m.Get(row, FieldAwarded),
			Source:       src,
		})
	}
	return out, m.Has(FieldAwarded), nil
}

// Candidates maps t onto candidate records.
func Candidates(t *model.Table) ([]model.CandidateRecord, error) {
	m, err := ElectoralSchema.Resolve(t.Header)
	if err != nil {
		return nil, err
	}
	out := make([]model.CandidateRecord, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, model.CandidateRecord{
			DepartmentCode:   m.Get(row, FieldDeptCode),
			DepartmentName:   m.Get(row, FieldDeptName),
			MunicipalityCode: m.Get(row, FieldMunCode),
			MunicipalityName: m.Get(row, FieldMunName),
			Year:             m.Get(row, FieldYear),
			Corporation:      m.Get(row, FieldCorporation),
			Candidate:        m.Get(row, FieldCandidate),
			PartyCode:        m.Get(row, FieldPartyCode),
			Party:            m.Get(row, FieldParty),
			Votes:            ParseVotes(m.Get(row, FieldVotes)),
		})
	}
	return out, nil
}

// Gazetteer maps t onto gazetteer entries, skipping blank rows.
func Gazetteer(t *model.Table) ([]model.GazetteerEntry, error) {
	m, err := GazetteerSchema.Resolve(t.Header)
	if err != nil {
		return nil, err
	}
	out := make([]model.GazetteerEntry, 0, t.Len())
	for _, row := range t.Rows {
		e := model.GazetteerEntry{
			Municipality: m.Get(row, FieldGazMunicipality),
			Department:   m.Get(row, FieldGazDepartment),
		}
		if e.Municipality == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Digits keeps only ASCII digits.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ParseNIT cleans an entity identifier. Anything that does not reduce to a
// positive integer yields 0.
func ParseNIT(s string) int64 {
	n, err := strconv.ParseInt(Digits(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ParseValue parses a peso amount. Currency signs and surrounding spaces are
// tolerated; anything else unparseable is reported as missing.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDate tries the known layouts and returns the zero time on failure.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseVotes reads a vote count. Decimal suffixes such as "12.0" are dropped
// and malformed counts become 0.
func ParseVotes(s string) int64 {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
