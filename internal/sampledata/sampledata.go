// Package sampledata generates small, deterministic input files that exercise
// every rule of the pipeline: placeholder locations, simplified modalities,
// rejected awards, contested and uncontested municipalities.
package sampledata

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/secopvotes/internal/adapters/tabular"
	"github.com/okian/secopvotes/internal/domain/electoral"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/pkg/logger"
)

// File names written by Write.
const (
	SECOPIFile       = "secop1_intermediate.csv"
	SECOPIIFile      = "secop2_intermediate.csv"
	GazetteerFile    = "municipios_colombia.csv"
	ElectoralRawFile = "resultados_electorales_raw.csv"
	ElectoralFile    = "resultados_electorales_intermediate.csv"
)

// DefaultSeed is used when Config.Seed is zero.
const DefaultSeed = 2023

type place struct {
	deptCode, dept, munCode, mun string
	election                     electionKind
}

type electionKind int

const (
	noElection electionKind = iota
	contested
	uncontested
)

// places drive every generated file. ENVIGADO's entity reports no location,
// BARRANCABERMEJA has no election and PASTO's race has no outsider.
//
//nolint:gochecknoglobals // frozen lookup table
var places = []place{
	{"05", "ANTIOQUIA", "001", "MEDELLÍN", contested},
	{"05", "ANTIOQUIA", "266", "ENVIGADO", contested},
	{"08", "ATLÁNTICO", "758", "SOLEDAD", contested},
	{"13", "BOLÍVAR", "001", "CARTAGENA", contested},
	{"25", "CUNDINAMARCA", "754", "SOACHA", contested},
	{"52", "NARIÑO", "001", "PASTO", uncontested},
	{"68", "SANTANDER", "081", "BARRANCABERMEJA", noElection},
}

//nolint:gochecknoglobals // frozen lookup table
var modalities = []string{
	"Contratación directa",
	"Mínima cuantía",
	"Licitación pública",
	"Selección Abreviada de Menor Cuantía",
	"Concurso de méritos abiertos",
	"Contratación régimen especial",
}

// Config controls generation.
type Config struct {
	Seed int64
	// ContractsPerEntity is the number of guaranteed-eligible main-window
	// contracts per municipal entity. Values below 2 are raised to 2.
	ContractsPerEntity int
}

// Dataset holds the generated tables.
type Dataset struct {
	SECOPI       *model.Table
	SECOPII      *model.Table
	Gazetteer    *model.Table
	ElectoralRaw *model.Table
	Electoral    *model.Table
}

// Files are the paths written by Write.
type Files struct {
	SECOPI       string
	SECOPII      string
	Gazetteer    string
	ElectoralRaw string
	Electoral    string
}

type generator struct {
	rng    *rand.Rand
	seq    int
	secop1 *model.Table
	secop2 *model.Table
}

// Generate builds a dataset. The same Config always yields the same tables.
func Generate(cfg Config) (Dataset, error) {
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	if cfg.ContractsPerEntity < 2 {
		cfg.ContractsPerEntity = 2
	}
	g := &generator{
		rng: rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x5ec0)), //nolint:gosec // reproducible sample data
		secop1: model.NewTable("uid", "nombre_entidad", "nit_de_la_entidad", "departamento_entidad", "municipio_entidad",
			"modalidad_de_contratacion", "estado_del_proceso", "fecha_de_firma_del_contrato", "cuantia_contrato",
			"identificacion_del_contratista", "nom_razon_social_contratista"),
		secop2: model.NewTable("id_del_proceso", "entidad", "nit_entidad", "departamento_entidad", "ciudad_entidad",
			"modalidad_de_contratacion", "estado_del_procedimiento", "fecha_adjudicacion", "valor_total_adjudicacion",
			"nit_del_proveedor_adjudicado", "nombre_del_proveedor", "adjudicado", "origen_dato"),
	}

	for i, p := range places {
		e := entity{nit: 890900000 + int64(i)*1000, name: "ALCALDÍA MUNICIPAL DE " + p.mun, dept: p.dept, mun: p.mun}
		if p.mun == "ENVIGADO" {
			e.dept, e.mun = "No Definido", "No Definido"
		}
		g.entityContracts(e, cfg.ContractsPerEntity)
	}
	// No recoverable location: only ever reaches the merge as a placeholder.
	g.entityContracts(entity{nit: 811000111, name: "EMPRESA DE SERVICIOS PUBLICOS", dept: "No Definido", mun: "No Definido"}, cfg.ContractsPerEntity)
	// A single contract keeps this entity under the threshold.
	g.contract(entity{nit: 800100200, name: "HOSPITAL SAN RAFAEL", dept: "ANTIOQUIA", mun: "MEDELLÍN"}, 2021, true, validRow)
	g.noise()

	raw := g.electoralRaw()
	recs, err := tabular.Candidates(raw)
	if err != nil {
		return Dataset{}, fmt.Errorf("map generated electoral table: %w", err)
	}

	return Dataset{
		SECOPI:       g.secop1,
		SECOPII:      g.secop2,
		Gazetteer:    gazetteer(),
		ElectoralRaw: raw,
		Electoral:    tabular.CandidateTable(electoral.ReduceTopTwo(recs)),
	}, nil
}

// Write generates a dataset into dir.
func Write(ctx context.Context, dir string, cfg Config) (Files, error) {
	d, err := Generate(cfg)
	if err != nil {
		return Files{}, err
	}
	files := Files{
		SECOPI:       filepath.Join(dir, SECOPIFile),
		SECOPII:      filepath.Join(dir, SECOPIIFile),
		Gazetteer:    filepath.Join(dir, GazetteerFile),
		ElectoralRaw: filepath.Join(dir, ElectoralRawFile),
		Electoral:    filepath.Join(dir, ElectoralFile),
	}
	for _, w := range []struct {
		path string
		t    *model.Table
	}{
		{files.SECOPI, d.SECOPI},
		{files.SECOPII, d.SECOPII},
		{files.Gazetteer, d.Gazetteer},
		{files.ElectoralRaw, d.ElectoralRaw},
		{files.Electoral, d.Electoral},
	} {
		if err := tabular.WriteCSV(w.path, w.t); err != nil {
			return Files{}, err
		}
		logger.Get().Info(ctx, "sample file written", logger.String("path", w.path), logger.Int("rows", w.t.Len()))
	}
	return files, nil
}

type entity struct {
	nit             int64
	name, dept, mun string
}

type rowKind int

const (
	validRow rowKind = iota
	zeroValue
	notAwarded
	noDate
)

// entityContracts writes n eligible main-window contracts, alternating
// sources, plus a few control-window contracts.
func (g *generator) entityContracts(e entity, n int) {
	for j := 0; j < n; j++ {
		g.contract(e, 2020+g.rng.IntN(4), j%2 == 0, validRow)
	}
	for j := 0; j < 1+g.rng.IntN(3); j++ {
		g.contract(e, 2015+g.rng.IntN(4), j%2 == 1, validRow)
	}
}

// noise adds rows every eligibility rule must reject.
func (g *generator) noise() {
	e := entity{nit: 890900000, name: "ALCALDÍA MUNICIPAL DE MEDELLÍN", dept: "ANTIOQUIA", mun: "MEDELLÍN"}
	for _, k := range []rowKind{zeroValue, notAwarded, noDate} {
		g.contract(e, 2021, true, k)
		g.contract(e, 2021, false, k)
	}
	// Outside the corpus.
	g.contract(e, 2012, true, validRow)
}

func (g *generator) contract(e entity, year int, secopII bool, kind rowKind) {
	g.seq++
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.Itoa(g.seq))).String()
	date := time.Date(year, time.Month(1+g.rng.IntN(12)), 1+g.rng.IntN(28), 0, 0, 0, 0, time.UTC)
	value := strconv.Itoa(1_000_000 * (1 + g.rng.IntN(500)))
	modality := modalities[g.rng.IntN(len(modalities))]
	provider := strconv.FormatInt(900000000+int64(g.rng.IntN(4)), 10)
	if g.rng.IntN(10) == 0 {
		provider = ""
	}
	nit := strconv.FormatInt(e.nit, 10)

	if kind == zeroValue {
		value = "0"
	}
	dateCell, stamp := date.Format(time.DateOnly), date.Format("2006-01-02T15:04:05.000")
	if kind == noDate {
		dateCell, stamp = "", ""
	}

	if secopII {
		awarded := "Si"
		if kind == notAwarded {
			awarded = "No"
		}
		g.secop2.Append(id, e.name, nit, e.dept, e.mun, modality, "Adjudicado", stamp, value,
			provider, "PROVEEDOR "+provider, awarded, "SECOP II")
		return
	}
	status := "Celebrado"
	if kind == notAwarded {
		status = "Convocado"
	}
	g.secop1.Append(id, e.name, nit, e.dept, e.mun, modality, status, dateCell, value, provider, "CONTRATISTA "+provider)
}

// electoralRaw emits polling-station level results: two stations per
// candidate, blank votes and a council race that the reducer must ignore.
func (g *generator) electoralRaw() *model.Table {
	t := model.NewTable(append(append([]string(nil), tabular.CandidateHeader[:5]...),
		string(tabular.FieldCorporation), string(tabular.FieldCandidate), string(tabular.FieldPartyCode),
		string(tabular.FieldParty), string(tabular.FieldVotes))...)

	for _, p := range places {
		if p.election == noElection {
			continue
		}
		type cand struct {
			name, code, party string
			votes             int
		}
		cands := []cand{
			{"CANDIDATO LIBERAL " + p.mun, "001", "PARTIDO LIBERAL COLOMBIANO", 5000 + g.rng.IntN(3000)},
			{"CANDIDATA CIUDADANA " + p.mun, "950", "GRUPO SIGNIFICATIVO DE CIUDADANOS " + p.mun + " PRIMERO", 3000 + g.rng.IntN(1500)},
			{"CANDIDATO CONSERVADOR " + p.mun, "002", "PARTIDO CONSERVADOR COLOMBIANO", 100 + g.rng.IntN(500)},
		}
		if p.election == uncontested {
			cands[1] = cand{"CANDIDATA VERDE " + p.mun, "003", "PARTIDO ALIANZA VERDE", cands[1].votes}
		}
		for _, c := range cands {
			first := c.votes / 2
			for _, v := range []int{first, c.votes - first} {
				t.Append(p.deptCode, p.dept, p.munCode, p.mun, "2019", "ALCALDE", c.name, c.code, c.party, strconv.Itoa(v))
			}
		}
		t.Append(p.deptCode, p.dept, p.munCode, p.mun, "2019", "ALCALDE", "VOTOS EN BLANCO", "996", "", strconv.Itoa(10000))
		t.Append(p.deptCode, p.dept, p.munCode, p.mun, "2019", "CONCEJO", "LISTA CONCEJO", "001", "PARTIDO LIBERAL COLOMBIANO", strconv.Itoa(20000))
	}
	return t
}

// gazetteer lists every place plus one name shared by two departments.
func gazetteer() *model.Table {
	t := model.NewTable("departamento", "municipio")
	for _, p := range places {
		t.Append(p.dept, p.mun)
	}
	t.Append("ANTIOQUIA", "LA UNIÓN")
	t.Append("NARIÑO", "LA UNIÓN")
	return t
}
