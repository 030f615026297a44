// Package electoral compares the strongest outsider and establishment
// mayoral candidates of each contested municipality.
package electoral

import (
	"sort"
	"strings"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// Report summarizes a comparison run.
type Report struct {
	Candidates     int // candidate rows read
	Outsiders      int // of those, classified as outsider
	Municipalities int // distinct municipality groups
	Contested      int // groups with both classes present
}

type group struct {
	key     string
	members []model.CandidateRecord
}

// Compare classifies candidates against roster and returns one row per
// municipality where both an outsider and an establishment candidate appear.
func Compare(records []model.CandidateRecord, roster *Roster) ([]model.ElectionRow, Report) {
	if roster == nil {
		roster = DefaultRoster()
	}
	rep := Report{Candidates: len(records)}

	groups := make([]*group, 0)
	byKey := make(map[string]*group)
	for _, r := range records {
		r.Outsider = roster.IsOutsider(r.Party)
		if r.Outsider {
			rep.Outsiders++
		}
		k := municipalityKey(r)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, r)
	}
	rep.Municipalities = len(groups)

	out := make([]model.ElectionRow, 0, len(groups))
	for _, g := range groups {
		outsider, okOut := best(g.members, true)
		establishment, okEst := best(g.members, false)
		if !okOut || !okEst {
			continue
		}
		rep.Contested++
		out = append(out, row(outsider, establishment))
	}
	return out, rep
}

// municipalityKey groups by codes when present, since municipality codes
// repeat across departments, and falls back to normalized names. The year is
// part of the key so several elections in one file never mix.
func municipalityKey(r model.CandidateRecord) string {
	dept, mun := strings.TrimSpace(r.DepartmentCode), strings.TrimSpace(r.MunicipalityCode)
	if dept == "" || mun == "" {
		dept = "n:" + textnorm.Normalize(r.DepartmentName, types.KindLabel)
		mun = textnorm.Normalize(r.MunicipalityName, types.KindLabel)
	}
	return strings.TrimSpace(r.Year) + "|" + dept + "|" + mun
}

// best returns the highest-voted candidate of one class; ties keep input order.
func best(members []model.CandidateRecord, outsider bool) (model.CandidateRecord, bool) {
	var top model.CandidateRecord
	found := false
	for _, m := range members {
		if m.Outsider != outsider {
			continue
		}
		if !found || m.Votes > top.Votes {
			top, found = m, true
		}
	}
	return top, found
}

func row(outsider, establishment model.CandidateRecord) model.ElectionRow {
	diff := outsider.Votes - establishment.Votes
	return model.ElectionRow{
		DepartmentCode:   outsider.DepartmentCode,
		DepartmentName:   textnorm.Normalize(outsider.DepartmentName, types.KindLabel),
		MunicipalityCode: outsider.MunicipalityCode,
		MunicipalityName: textnorm.Normalize(outsider.MunicipalityName, types.KindLabel),
		Year:             outsider.Year,
		Outsider:         candidate(outsider),
		Establishment:    candidate(establishment),
		Difference:       diff,
		Margin:           model.Ratio(float64(diff), float64(outsider.Votes+establishment.Votes)),
	}
}

func candidate(r model.CandidateRecord) model.Candidate {
	return model.Candidate{Name: r.Candidate, PartyCode: r.PartyCode, Party: r.Party, Votes: r.Votes}
}

// invalidVotes are pseudo-candidates published alongside real ones.
//
//nolint:gochecknoglobals // frozen lookup table
var invalidVotes = map[string]struct{}{
	"VOTOS NO MARCADOS": {},
	"VOTOS EN BLANCO":   {},
	"VOTOS NULOS":       {},
}

// IsMayoral reports whether a corporation name denotes a mayoral race.
func IsMayoral(corporation string) bool {
	c := strings.ToUpper(corporation)
	return strings.Contains(c, "ALCALDE") || strings.Contains(c, "ALCALDÍA") || strings.Contains(c, "ALCALDIA")
}

// ReduceTopTwo turns polling-station level results into the two most voted
// mayoral candidates per municipality: other corporations and blank, null or
// unmarked votes are dropped and votes are summed per candidate.
func ReduceTopTwo(records []model.CandidateRecord) []model.CandidateRecord {
	type candKey struct {
		year, deptCode, deptName, munCode, munName, name, partyCode, party string
	}
	sums := make(map[candKey]*model.CandidateRecord)
	order := make([]candKey, 0)
	for _, r := range records {
		if !IsMayoral(r.Corporation) {
			continue
		}
		if _, bad := invalidVotes[strings.ToUpper(strings.TrimSpace(r.Candidate))]; bad {
			continue
		}
		k := candKey{r.Year, r.DepartmentCode, r.DepartmentName, r.MunicipalityCode, r.MunicipalityName, r.Candidate, r.PartyCode, r.Party}
		if acc, ok := sums[k]; ok {
			acc.Votes += r.Votes
			continue
		}
		c := r
		sums[k] = &c
		order = append(order, k)
	}

	summed := make([]model.CandidateRecord, 0, len(order))
	for _, k := range order {
		summed = append(summed, *sums[k])
	}
	sort.SliceStable(summed, func(i, j int) bool { return summed[i].Votes > summed[j].Votes })

	perMunicipality := make(map[string]int)
	out := make([]model.CandidateRecord, 0, len(summed))
	for _, r := range summed {
		k := r.Year + "|" + r.DepartmentCode + "|" + r.DepartmentName + "|" + r.MunicipalityCode + "|" + r.MunicipalityName
		if perMunicipality[k] >= 2 {
			continue
		}
		perMunicipality[k]++
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DepartmentName != out[j].DepartmentName {
			return out[i].DepartmentName < out[j].DepartmentName
		}
		if out[i].MunicipalityName != out[j].MunicipalityName {
			return out[i].MunicipalityName < out[j].MunicipalityName
		}
		return out[i].Votes > out[j].Votes
	})
	return out
}
