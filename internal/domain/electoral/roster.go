package electoral

import (
	"strings"

	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// officialParties lists the national parties and movements treated as establishment.
//
//nolint:gochecknoglobals // frozen lookup table
var officialParties = []string{
	"AGRUPACION POLITICA EN MARCHA", "INDEPENDIENTES", "MOVIMIENTO SALVACION NACIONAL",
	"MOVIMIENTO ALIANZA DEMOCRATICA AMPLIA", "MOVIMIENTO ALTERNATIVO INDIGENA Y SOCIAL MAIS",
	"MOVIMIENTO AUTORIDADES INDIGENAS DE COLOMBIA AICO", "MOVIMIENTO ESPERANZA PAZ Y LIBERTAD",
	"MOVIMIENTO FUERZA CIUDADANA", "MOVIMIENTO POLITICO COLOMBIA HUMANA", "NUEVA FUERZA DEMOCRATICA",
	"PARTIDO ALIANZA SOCIAL INDEPENDIENTE ASI", "PARTIDO ALIANZA VERDE", "PARTIDO CAMBIO RADICAL",
	"PARTIDO CENTRO DEMOCRATICO", "PARTIDO COLOMBIA JUSTA LIBRES", "PARTIDO COLOMBIA RENACIENTE",
	"PARTIDO COMUNES", "PARTIDO COMUNISTA COLOMBIANO", "PARTIDO CONSERVADOR COLOMBIANO",
	"PARTIDO DE LA UNION POR LA GENTE PARTIDO DE LA U", "PARTIDO SOCIAL DE UNIDAD NACIONAL  PARTIDO DE LA U",
	"PARTIDO DEL TRABAJO DE COLOMBIA PTC", "PARTIDO DEMOCRATA COLOMBIANO", "PARTIDO ECOLOGISTA COLOMBIANO",
	"PARTIDO LIBERAL COLOMBIANO", "LIGA DE GOBERNANTES ANTICORRUPCION", "PARTIDO NUEVO LIBERALISMO",
	"PARTIDO POLO DEMOCRATICO ALTERNATIVO", "PARTIDO POLITICO CREEMOS", "PARTIDO POLITICO DIGNIDAD",
	"PARTIDO POLITICO GENTE EN MOVIMIENTO", "PARTIDO POLITICO LA FUERZA DE LA PAZ", "PARTIDO POLITICO MIRA",
	"PARTIDO UNION PATRIOTICA UP", "PARTIDO VERDE OXIGENO", "TODOS SOMOS COLOMBIA",
}

// Roster is a frozen set of normalized establishment party names.
type Roster struct {
	names []string
}

// DefaultRoster returns the built-in official party roster.
func DefaultRoster() *Roster { return NewRoster(officialParties...) }

// NewRoster normalizes and freezes the given party names. Empty names are skipped.
func NewRoster(parties ...string) *Roster {
	r := &Roster{names: make([]string, 0, len(parties))}
	for _, p := range parties {
		if n := textnorm.Normalize(p, types.KindLabel); n != "" {
			r.names = append(r.names, n)
		}
	}
	return r
}

// Extend returns a new roster with extra party names appended.
func (r *Roster) Extend(parties ...string) *Roster {
	out := NewRoster(parties...)
	out.names = append(append([]string{}, r.names...), out.names...)
	return out
}

// Len returns the number of party names in the roster.
func (r *Roster) Len() int { return len(r.names) }

// IsOutsider reports whether a party is absent from the roster. Names match
// when either normalized form contains the other; an empty party is an outsider.
func (r *Roster) IsOutsider(party string) bool {
	n := textnorm.Normalize(party, types.KindLabel)
	if n == "" {
		return true
	}
	for _, official := range r.names {
		if strings.Contains(official, n) || strings.Contains(n, official) {
			return false
		}
	}
	return true
}
