package concentration_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/secopvotes/internal/domain/concentration"
	"github.com/okian/secopvotes/internal/domain/model"
	"github.com/okian/secopvotes/internal/domain/types"
	"github.com/okian/secopvotes/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func award(nit int64, id, provider string, value float64, year int, modality string) model.ContractRecord {
	return model.ContractRecord{
		ProcessID:   id,
		EntityNIT:   nit,
		ProviderNIT: provider,
		AwardValue:  value,
		HasValue:    true,
		AwardDate:   time.Date(year, 4, 1, 0, 0, 0, 0, time.UTC),
		Modality:    modality,
	}
}

func TestCompute(t *testing.T) {
	Convey("Given two suppliers splitting 1000 for one entity", t, func() {
		records := []model.ContractRecord{
			award(900123456, "p-1", "P1", 100, 2021, "Contratación directa"),
			award(900123456, "p-2", "P1", 300, 2021, "Licitación pública"),
			award(900123456, "p-3", "P2", 600, 2021, "Licitación pública"),
		}

		Convey("When computing the main window", func() {
			results := concentration.Compute(records, window.Main())

			Convey("Then HHI is the sum of squared supplier shares", func() {
				So(results, ShouldHaveLength, 1)
				r := results[0]
				So(r.NIT, ShouldEqual, 900123456)
				So(r.Window, ShouldEqual, "main")
				So(r.Suppliers, ShouldEqual, 2)
				So(r.HHI, ShouldAlmostEqual, 0.52, 1e-12)
				So(r.HHI10000, ShouldEqual, 5200)
			})

			Convey("And simplified shares use distinct processes and value", func() {
				r := results[0]
				So(r.Processes, ShouldEqual, 3)
				So(r.SimplifiedProcesses, ShouldEqual, 1)
				So(r.TotalValue, ShouldEqual, 1000)
				So(r.SimplifiedValue, ShouldEqual, 100)
				So(r.PctSimplifiedCount.Valid, ShouldBeTrue)
				So(r.PctSimplifiedCount.Value, ShouldAlmostEqual, 1.0/3.0, 1e-12)
				So(r.PctSimplifiedValue.Value, ShouldAlmostEqual, 0.1, 1e-12)
				So(r.LogTotalValue, ShouldAlmostEqual, math.Log(1001), 1e-12)
			})
		})

		Convey("When computing a window with no records", func() {
			results := concentration.Compute(records, window.Control())

			Convey("Then no rows are emitted", func() {
				So(results, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a single supplier", t, func() {
		records := []model.ContractRecord{
			award(1, "a", "S", 10, 2016, ""),
			award(1, "b", "S", 30, 2017, ""),
		}

		Convey("Then HHI is exactly one", func() {
			results := concentration.Compute(records, window.Control())
			So(results, ShouldHaveLength, 1)
			So(results[0].HHI, ShouldEqual, 1)
			So(results[0].HHI10000, ShouldEqual, 10000)
			So(results[0].PctSimplifiedValue.Value, ShouldEqual, 0)
		})
	})

	Convey("Given an entity whose contracts are all worth zero", t, func() {
		records := []model.ContractRecord{
			award(7, "z-1", "A", 0, 2021, ""),
			award(7, "z-2", "B", 0, 2022, ""),
			award(8, "y-1", "A", 5, 2022, ""),
		}

		Convey("Then it produces no result", func() {
			results := concentration.Compute(records, window.Main())
			So(results, ShouldHaveLength, 1)
			So(results[0].NIT, ShouldEqual, 8)
		})
	})

	Convey("Given contracts without a provider identifier", t, func() {
		records := []model.ContractRecord{
			award(5, "n-1", "", 50, 2021, ""),
			award(5, "n-2", "", 50, 2021, ""),
			award(5, "n-3", "X", 100, 2021, ""),
		}

		Convey("Then they are grouped as one supplier", func() {
			results := concentration.Compute(records, window.Main())
			So(results[0].Suppliers, ShouldEqual, 2)
			So(results[0].HHI, ShouldAlmostEqual, 0.5, 1e-12)
		})
	})

	Convey("Given one process split over several rows", t, func() {
		records := []model.ContractRecord{
			award(6, "same", "A", 10, 2021, "Mínima cuantía"),
			award(6, "same", "B", 10, 2021, "Mínima cuantía"),
		}

		Convey("Then the simplified count never exceeds the process count", func() {
			r := concentration.Compute(records, window.Main())[0]
			So(r.Processes, ShouldEqual, 1)
			So(r.SimplifiedProcesses, ShouldEqual, 1)
			So(r.PctSimplifiedCount.Value, ShouldEqual, 1)
		})
	})
}

func TestHHIProperties(t *testing.T) {
	Convey("Given N suppliers with equal value", t, func() {
		for _, n := range []int{1, 2, 3, 7, 40} {
			values := make([]float64, n)
			for i := range values {
				values[i] = 250
			}
			h, ok := concentration.HHI(values)
			So(ok, ShouldBeTrue)
			So(h, ShouldAlmostEqual, 1/float64(n), 1e-12)
		}
	})

	Convey("Given arbitrary positive supplier values", t, func() {
		values := []float64{3, 1, 4, 1, 5, 9, 2, 6}

		Convey("Then shares sum to one and HHI is within (0,1]", func() {
			shares, ok := concentration.Shares(values)
			So(ok, ShouldBeTrue)
			sum := 0.0
			for _, s := range shares {
				sum += s
			}
			So(sum, ShouldAlmostEqual, 1, 1e-12)

			h, _ := concentration.HHI(values)
			So(h, ShouldBeGreaterThan, 0)
			So(h, ShouldBeLessThanOrEqualTo, 1)
		})
	})

	Convey("Given values that sum to zero", t, func() {
		_, ok := concentration.HHI([]float64{0, 0})
		So(ok, ShouldBeFalse)
		_, ok = concentration.Shares(nil)
		So(ok, ShouldBeFalse)
	})

	Convey("Given HHI values to scale", t, func() {
		So(concentration.Scaled(0.52), ShouldEqual, 5200)
		So(concentration.Scaled(1), ShouldEqual, 10000)
		So(concentration.Scaled(0.5), ShouldEqual, 5000)
		So(concentration.Scaled(0), ShouldEqual, 0)
	})
}

func TestClassify(t *testing.T) {
	Convey("Given modality texts", t, func() {
		Convey("Then exclusions take precedence over inclusions", func() {
			So(concentration.Classify("enajenacion por seleccion abreviada menor cuantia"), ShouldEqual, types.ModalityExcluded)
			So(concentration.IsSimplified("Enajenación por contratación directa"), ShouldBeFalse)
			So(concentration.IsSimplified("Subasta de prueba - contratación directa"), ShouldBeFalse)
			So(concentration.IsSimplified("Solicitud de información a los Proveedores"), ShouldBeFalse)
		})

		Convey("Then the simplified modalities are recognized", func() {
			So(concentration.IsSimplified("Contratación Directa (con ofertas)"), ShouldBeTrue)
			So(concentration.IsSimplified("Mínima cuantía"), ShouldBeTrue)
			So(concentration.IsSimplified("Régimen Especial"), ShouldBeTrue)
			So(concentration.IsSimplified("Selección Abreviada de Menor Cuantía"), ShouldBeTrue)
		})

		Convey("Then reverse auctions are not simplified", func() {
			So(concentration.IsSimplified("Selección abreviada subasta inversa menor cuantía"), ShouldBeFalse)
			So(concentration.IsSimplified("Selección abreviada subasta inversa"), ShouldBeFalse)
		})

		Convey("Then everything else falls to the competitive default", func() {
			So(concentration.Classify("Licitación pública"), ShouldEqual, types.ModalityCompetitive)
			So(concentration.Classify(""), ShouldEqual, types.ModalityCompetitive)
			So(concentration.Classify("Concurso de méritos abierto"), ShouldEqual, types.ModalityCompetitive)
		})
	})
}
