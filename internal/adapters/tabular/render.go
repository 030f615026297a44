package tabular

import (
	"strconv"

	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// ProcurementHeader is the column contract of secop.csv.
//
//nolint:gochecknoglobals // frozen lookup table
var ProcurementHeader = []string{
	"nit_entidad", "entidad", "departamento_entidad", "ciudad_entidad", "periodo", "alcaldia", "num_contratos",
	"HHI", "HHI_10000", "pct_simplif_count", "pct_simplif_value", "procesos_simplif", "valor_simplif", "valor_total_conc",
	"HHI_10000_ctrl", "HHI_ctrl", "log_valor_ctrl", "num_contratos_ctrl", "pct_simplif_count_ctrl", "pct_simplif_value_ctrl",
}

// ElectoralHeader is the column contract of outsiders.csv.
//
//nolint:gochecknoglobals // frozen lookup table
var ElectoralHeader = []string{
	string(FieldDeptCode), string(FieldDeptName), string(FieldMunCode), string(FieldMunName), string(FieldYear),
	"candidato_outsider", "partido_outsider", "votos_outsider",
	"candidato_no_outsider", "partido_no_outsider", "votos_no_outsider",
	"diferencia_votos", "margen_victoria",
}

// CandidateHeader is the layout of a reduced top-two candidate table.
//
//nolint:gochecknoglobals // frozen lookup table
var CandidateHeader = []string{
	string(FieldDeptCode), string(FieldDeptName), string(FieldMunCode), string(FieldMunName), string(FieldYear),
	string(FieldCandidate), string(FieldPartyCode), string(FieldParty), string(FieldVotes),
}

// ProcurementTable renders one row per entity with a main-window result.
// Control metrics are left empty for entities without control activity.
func ProcurementTable(entities []model.EntitySummary, period string, main, ctrl map[int64]model.ConcentrationResult) *model.Table {
	t := model.NewTable(ProcurementHeader...)
	for _, e := range entities {
		m, ok := main[e.NIT]
		if !ok {
			continue
		}
		row := []string{
			strconv.FormatInt(e.NIT, 10),
			e.Name,
			textnorm.Normalize(e.Department, types.KindDepartment),
			textnorm.Normalize(e.Municipality, types.KindMunicipality),
			period,
			boolCell(e.Municipal),
			strconv.Itoa(e.Contracts),
			floatCell(m.HHI),
			strconv.FormatInt(m.HHI10000, 10),
			metricCell(m.PctSimplifiedCount),
			metricCell(m.PctSimplifiedValue),
			strconv.Itoa(m.SimplifiedProcesses),
			floatCell(m.SimplifiedValue),
			floatCell(m.TotalValue),
		}
		if c, ok := ctrl[e.NIT]; ok {
			row = append(row,
				strconv.FormatInt(c.HHI10000, 10),
				floatCell(c.HHI),
				floatCell(c.LogTotalValue),
				strconv.Itoa(c.Processes),
				metricCell(c.PctSimplifiedCount),
				metricCell(c.PctSimplifiedValue),
			)
		}
		t.Append(row...)
	}
	return t
}

// ElectoralTable renders comparison rows.
func ElectoralTable(rows []model.ElectionRow) *model.Table {
	t := model.NewTable(ElectoralHeader...)
	for _, r := range rows {
		t.Append(
			r.DepartmentCode, r.DepartmentName, r.MunicipalityCode, r.MunicipalityName, r.Year,
			r.Outsider.Name, r.Outsider.Party, strconv.FormatInt(r.Outsider.Votes, 10),
			r.Establishment.Name, r.Establishment.Party, strconv.FormatInt(r.Establishment.Votes, 10),
			strconv.FormatInt(r.Difference, 10), metricCell(r.Margin),
		)
	}
	return t
}

// CandidateTable renders candidate records, e.g. the output of the top-two reducer.
func CandidateTable(records []model.CandidateRecord) *model.Table {
	t := model.NewTable(CandidateHeader...)
	for _, r := range records {
		t.Append(
			r.DepartmentCode, r.DepartmentName, r.MunicipalityCode, r.MunicipalityName, r.Year,
			r.Candidate, r.PartyCode, r.Party, strconv.FormatInt(r.Votes, 10),
		)
	}
	return t
}

func floatCell(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func metricCell(m model.Metric) string {
	if !m.Valid {
		return ""
	}
	return floatCell(m.Value)
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
