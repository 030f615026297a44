package concentration

import (
	"strings"

	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
)

// Classify maps a contracting-modality text to its outcome. Exclusions are
// checked before inclusions; anything unmatched is competitive.
func Classify(modality string) types.Modality {
	m := textnorm.Normalize(modality, types.KindMunicipality)
	if m == "" {
		return types.ModalityCompetitive
	}

	switch {
	case strings.HasPrefix(m, "enajenacion"),
		strings.Contains(m, "subasta de prueba"),
		strings.HasPrefix(m, "solicitud de informacion"):
		return types.ModalityExcluded
	case strings.Contains(m, "contratacion directa"),
		strings.Contains(m, "minima cuantia"),
		strings.Contains(m, "regimen especial"):
		return types.ModalitySimplified
	case strings.Contains(m, "seleccion abreviada") &&
		strings.Contains(m, "menor cuantia") &&
		!strings.Contains(m, "subasta inversa"):
		return types.ModalitySimplified
	default:
		return types.ModalityCompetitive
	}
}

// IsSimplified reports whether a modality counts as a simplified procedure.
func IsSimplified(modality string) bool { return Classify(modality).Simplified() }
