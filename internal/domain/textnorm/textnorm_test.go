package textnorm_test

import (
	"testing"

	"github.com/okian/secopvotes/internal/domain/textnorm"
	"github.com/okian/secopvotes/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var allKinds = []types.Kind{types.KindGeneric, types.KindMunicipality, types.KindDepartment, types.KindLabel}

func TestNormalize(t *testing.T) {
	Convey("Given free-text names", t, func() {
		Convey("When normalizing with any kind", func() {
			Convey("Then case, accents and whitespace are folded", func() {
				for _, k := range allKinds {
					So(textnorm.Normalize("  MEDELLÍN  ", k), ShouldEqual, "medellin")
					So(textnorm.Normalize("Bolívar\t\n Antioquia", k), ShouldEqual, "bolivar antioquia")
				}
			})

			Convey("Then empty input yields an empty string", func() {
				for _, k := range allKinds {
					So(textnorm.Normalize("", k), ShouldEqual, "")
					So(textnorm.Normalize("   ", k), ShouldEqual, "")
				}
			})
		})

		Convey("When normalizing departments and municipalities with ñ", func() {
			Convey("Then composed and decomposed forms agree", func() {
				composed := "NARIÑO"
				decomposed := "NARIN\u0303O"
				So(textnorm.Normalize(composed, types.KindDepartment), ShouldEqual, "narino")
				So(textnorm.Normalize(decomposed, types.KindDepartment), ShouldEqual, "narino")
				So(textnorm.Normalize(composed, types.KindMunicipality), ShouldEqual, textnorm.Normalize(decomposed, types.KindMunicipality))
			})
		})

		Convey("When normalizing generic join keys", func() {
			Convey("Then administrative affixes are removed", func() {
				So(textnorm.Key("Bogotá D.C."), ShouldEqual, "bogota")
				So(textnorm.Key("Municipio de Envigado"), ShouldEqual, "envigado")
				So(textnorm.Key("Santa Marta Distrito Turístico y Cultural"), ShouldEqual, "santa marta")
				So(textnorm.Key("Bogota DC"), ShouldEqual, "bogota")
			})

			Convey("Then known aliases are resolved", func() {
				So(textnorm.Key("Cartagena de Indias"), ShouldEqual, "cartagena")
				So(textnorm.Key("San José de Cúcuta"), ShouldEqual, "cucuta")
			})

			Convey("Then words merely containing dc are kept", func() {
				So(textnorm.Key("adcx"), ShouldEqual, "adcx")
			})
		})

		Convey("When normalizing labels", func() {
			Convey("Then punctuation becomes whitespace", func() {
				So(textnorm.Normalize("PARTIDO DE LA \"U\"", types.KindLabel), ShouldEqual, "partido de la u")
				So(textnorm.Normalize("A.S.I.", types.KindLabel), ShouldEqual, "a s i")
			})

			Convey("Then truncated departments are repaired", func() {
				So(textnorm.Normalize("NORTE DE SAN", types.KindLabel), ShouldEqual, "norte de santander")
			})
		})

		Convey("When normalizing twice", func() {
			inputs := []string{
				"Bogotá D.C.", "municipio municipio de de x", "Cartagena de Indias", "  San José   de Cúcuta ",
				"ALCALDÍA MUNICIPAL DE SAN JOSÉ DEL GUAVIARE", "d.c. d.c.", "Ñoño, Ñ", "PARTIDO (MIRA)", "norte de san",
				"distrito turistico y cultural de cartagena de indias", "-.,", "x dc. y",
			}

			Convey("Then the result is stable", func() {
				for _, k := range allKinds {
					for _, in := range inputs {
						once := textnorm.Normalize(in, k)
						So(textnorm.Normalize(once, k), ShouldEqual, once)
					}
				}
			})
		})
	})
}

func TestIsPlaceholder(t *testing.T) {
	Convey("Given location values", t, func() {
		So(textnorm.IsPlaceholder(""), ShouldBeTrue)
		So(textnorm.IsPlaceholder("  No Definido "), ShouldBeTrue)
		So(textnorm.IsPlaceholder("NaN"), ShouldBeTrue)
		So(textnorm.IsPlaceholder("Medellín"), ShouldBeFalse)
	})
}
