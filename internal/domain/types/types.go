// Package types contains the tagged enumerations shared across the pipeline.
package types

import "strings"

// Source identifies which procurement registry a record came from.
type Source int

// Known sources. SourceUnknown is the zero value.
const (
	SourceUnknown Source = iota
	SourceSECOPI
	SourceSECOPII
)

// String returns the label used in the harmonized origen_dato column.
func (s Source) String() string {
	switch s {
	case SourceSECOPI:
		return "SECOP I"
	case SourceSECOPII:
		return "SECOP II"
	default:
		return "unknown"
	}
}

// Authority ranks sources for descriptive tie-breaks. Higher wins.
func (s Source) Authority() int {
	switch s {
	case SourceSECOPII:
		return 2
	case SourceSECOPI:
		return 1
	default:
		return 0
	}
}

// ParseSource maps an origen_dato label (or config value) to a Source.
func ParseSource(raw string) Source {
	s := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " "))
	switch s {
	case "SECOP I", "SECOP1", "SECOP 1", "I", "1":
		return SourceSECOPI
	case "SECOP II", "SECOP2", "SECOP 2", "II", "2":
		return SourceSECOPII
	default:
		return SourceUnknown
	}
}

// Modality is the outcome of classifying a contracting-modality text.
type Modality int

// Modality outcomes. ModalityCompetitive is the explicit default when no rule matches.
const (
	ModalityCompetitive Modality = iota
	ModalitySimplified
	ModalityExcluded
)

// String implements fmt.Stringer.
func (m Modality) String() string {
	switch m {
	case ModalitySimplified:
		return "simplified"
	case ModalityExcluded:
		return "excluded"
	default:
		return "competitive"
	}
}

// Simplified reports whether the modality counts towards the simplified share.
func (m Modality) Simplified() bool { return m == ModalitySimplified }

// Kind selects the normalization rules applied to a piece of text.
type Kind int

// Normalization kinds.
const (
	KindGeneric Kind = iota
	KindMunicipality
	KindDepartment
	KindLabel
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMunicipality:
		return "municipality"
	case KindDepartment:
		return "department"
	case KindLabel:
		return "label"
	default:
		return "generic"
	}
}
