package tabular

import (
	"fmt"
	"strings"

	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// Field is a canonical column understood by the pipeline.
type Field string

// Procurement fields, named after the harmonized SECOP columns.
const (
	FieldProcessID    Field = "id_del_proceso"
	FieldEntityName   Field = "entidad"
	FieldEntityNIT    Field = "nit_entidad"
	FieldDepartment   Field = "departamento_entidad"
	FieldMunicipality Field = "ciudad_entidad"
	FieldModality     Field = "modalidad_de_contratacion"
	FieldStatus       Field = "estado_del_procedimiento"
	FieldAwardDate    Field = "fecha_adjudicacion"
	FieldAwardValue   Field = "valor_total_adjudicacion"
	FieldProviderNIT  Field = "nit_del_proveedor_adjudicado"
	FieldProviderName Field = "nombre_del_proveedor"
	FieldAwarded      Field = "adjudicado"
	FieldOrigin       Field = "origen_dato"
)

// Electoral fields.
const (
	FieldDeptCode    Field = "Código Departamento"
	FieldDeptName    Field = "Nombre Departamento"
	FieldMunCode     Field = "Código Municipio"
	FieldMunName     Field = "Nombre Municipio"
	FieldYear        Field = "Año"
	FieldCorporation Field = "Nombre Corporación"
	FieldCandidate   Field = "Nombre Candidato"
	FieldPartyCode   Field = "Código Partido"
	FieldParty       Field = "Nombre Partido"
	FieldVotes       Field = "Votos"
)

// Gazetteer fields.
const (
	FieldGazMunicipality Field = "municipio"
	FieldGazDepartment   Field = "departamento"
)

type column struct {
	field    Field
	aliases  []string
	required bool
}

// Schema is a declarative alias table: for each canonical field, the header
// names that may carry it.
type Schema struct {
	name    string
	columns []column
}

// SECOPSchema accepts both harmonized columns and raw SECOP I names.
//
//nolint:gochecknoglobals // frozen lookup table
var SECOPSchema = Schema{name: "secop", columns: []column{
	{field: FieldProcessID, aliases: []string{"uid", "id_proceso"}, required: true},
	{field: FieldEntityName, aliases: []string{"nombre_entidad"}},
	{field: FieldEntityNIT, aliases: []string{"nit_de_la_entidad"}, required: true},
	{field: FieldDepartment, aliases: []string{"departamento"}},
	{field: FieldMunicipality, aliases: []string{"municipio_entidad", "ciudad"}},
	{field: FieldModality},
	{field: FieldStatus, aliases: []string{"estado_del_proceso"}},
	{field: FieldAwardDate, aliases: []string{"fecha_de_firma_del_contrato"}, required: true},
	{field: FieldAwardValue, aliases: []string{"cuantia_contrato"}, required: true},
	{field: FieldProviderNIT, aliases: []string{"identificacion_del_contratista"}},
	{field: FieldProviderName, aliases: []string{"nom_razon_social_contratista"}},
	{field: FieldAwarded},
	{field: FieldOrigin},
}}

// ElectoralSchema covers both polling-station exports and top-two tables.
//
//nolint:gochecknoglobals // frozen lookup table
var ElectoralSchema = Schema{name: "electoral", columns: []column{
	{field: FieldDeptCode},
	{field: FieldDeptName, aliases: []string{"departamento"}, required: true},
	{field: FieldMunCode},
	{field: FieldMunName, aliases: []string{"municipio"}, required: true},
	{field: FieldYear, aliases: []string{"ano", "year"}},
	{field: FieldCorporation},
	{field: FieldCandidate, aliases: []string{"candidato"}, required: true},
	{field: FieldPartyCode},
	{field: FieldParty, aliases: []string{"partido"}},
	{field: FieldVotes, aliases: []string{"Total Votos"}, required: true},
}}

// GazetteerSchema reads the municipality reference list.
//
//nolint:gochecknoglobals // frozen lookup table
var GazetteerSchema = Schema{name: "gazetteer", columns: []column{
	{field: FieldGazMunicipality, aliases: []string{"nom_mpio", "mpio_cnmbr"}, required: true},
	{field: FieldGazDepartment, aliases: []string{"dpto", "dpto_cnmbr"}, required: true},
}}

// Mapping is a schema resolved against one header.
type Mapping struct {
	index map[Field]int
}

// Resolve locates every field of s in header. Header names match when they
// agree ignoring case, accents and the difference between spaces and
// underscores. A missing required field yields ErrMissingColumn.
func (s Schema) Resolve(header []string) (Mapping, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		k := headerKey(h)
		if _, dup := byName[k]; !dup {
			byName[k] = i
		}
	}

	m := Mapping{index: make(map[Field]int, len(s.columns))}
	var missing []string
	for _, c := range s.columns {
		idx, ok := lookup(byName, c)
		if !ok {
			if c.required {
				missing = append(missing, string(c.field))
			}
			continue
		}
		m.index[c.field] = idx
	}
	if len(missing) > 0 {
		return Mapping{}, fmt.Errorf("%s: %s: %w", s.name, strings.Join(missing, ", "), ErrMissingColumn)
	}
	return m, nil
}

func lookup(byName map[string]int, c column) (int, bool) {
	if i, ok := byName[headerKey(string(c.field))]; ok {
		return i, true
	}
	for _, a := range c.aliases {
		if i, ok := byName[headerKey(a)]; ok {
			return i, true
		}
	}
	return 0, false
}

func headerKey(name string) string {
	return textnorm.Normalize(strings.ReplaceAll(name, "_", " "), types.KindLabel)
}

// Has reports whether f was found in the header.
func (m Mapping) Has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// Get returns the trimmed value of f in row, or "" when the column is absent.
func (m Mapping) Get(row []string, f Field) string {
	i, ok := m.index[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
