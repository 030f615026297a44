// Package model contains domain models passed between pipeline stages.
package model

import (
	"math"
	"time"

	"github.com/okian/secopvotes/internal/domain/types"
)

// ContractRecord is one procurement award after schema mapping.
type ContractRecord struct {
	ProcessID    string       // unique within its source
	EntityNIT    int64        // 0 when malformed or absent
	EntityName   string       // contracting entity display name
	Department   string       // entity department as reported
	Municipality string       // entity municipality as reported
	Modality     string       // contracting modality, free text
	Status       string       // procedure status
	AwardDate    time.Time    // zero when missing or unparseable
	AwardValue   float64      // award value in pesos
	HasValue     bool         // false when the value was missing or unparseable
	ProviderNIT  string       // digits only; empty means unknown provider
	ProviderName string       // provider display name
	Awarded      string       // raw awarded flag, e.g. "Si"
	Source       types.Source // registry of origin
}

// HasDate reports whether the award date was present and parseable.
func (r ContractRecord) HasDate() bool { return !r.AwardDate.IsZero() }

// EntitySummary describes one contracting entity.
type EntitySummary struct {
	NIT          int64
	Name         string
	Department   string
	Municipality string
	Municipal    bool // entity name looks like a municipal government
	Contracts    int  // distinct processes in the main window
	Source       types.Source
}

// Metric is a float that may be undefined (division by zero).
type Metric struct {
	Value float64
	Valid bool
}

// Defined wraps a known value.
func Defined(v float64) Metric { return Metric{Value: v, Valid: true} }

// Ratio returns num/den, undefined when den is zero.
func Ratio(num, den float64) Metric {
	if den == 0 {
		return Metric{}
	}
	return Defined(num / den)
}

// ConcentrationResult holds one entity's market structure for one window.
type ConcentrationResult struct {
	NIT                 int64
	Window              string
	Suppliers           int
	HHI                 float64 // 0..1
	HHI10000            int64   // HHI scaled by 10,000 and rounded
	Processes           int     // distinct processes
	SimplifiedProcesses int     // distinct processes flagged simplified
	TotalValue          float64
	SimplifiedValue     float64
	PctSimplifiedCount  Metric
	PctSimplifiedValue  Metric
	LogTotalValue       float64 // ln(TotalValue + 1)
}

// LogValue computes ln(v + 1).
func LogValue(v float64) float64 { return math.Log(v + 1) }

// GazetteerEntry is one row of the municipality reference table.
type GazetteerEntry struct {
	Municipality string
	Department   string
}

// CandidateRecord is one candidate's result in one municipality.
type CandidateRecord struct {
	DepartmentCode   string
	DepartmentName   string
	MunicipalityCode string
	MunicipalityName string
	Year             string
	Corporation      string
	Candidate        string
	PartyCode        string
	Party            string
	Votes            int64
	Outsider         bool
}

// Candidate is the per-class summary placed side by side in an ElectionRow.
type Candidate struct {
	Name      string
	PartyCode string
	Party     string
	Votes     int64
}

// ElectionRow compares the top outsider and establishment candidates of one contested municipality.
type ElectionRow struct {
	DepartmentCode   string
	DepartmentName   string
	MunicipalityCode string
	MunicipalityName string
	Year             string
	Outsider         Candidate
	Establishment    Candidate
	Difference       int64  // outsider votes minus establishment votes
	Margin           Metric // Difference over the sum of both
}
