// Package textnorm canonicalizes geographic, entity and party names so that
// records from different sources can be joined on text keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/secopvotes/internal/domain/types"
)

// Placeholder is the value sources use for an unknown location.
const Placeholder = "no definido"

// administrativeAffixes are removed literally in the generic path.
var administrativeAffixes = []string{ //nolint:gochecknoglobals // frozen lookup table
	"distrito turistico y cultural",
	"distrito turistico",
	"municipio de ",
	"d.c.",
}

// aliases resolve known spelling mismatches between procurement and electoral sources.
// Every value must itself be a fixed point of Normalize.
var aliases = map[string]string{ //nolint:gochecknoglobals // frozen lookup table
	"cartagena de indias": "cartagena",
	"san jose de cucuta":  "cucuta",
}

// labelFixes repairs names truncated by the electoral publisher.
var labelFixes = map[string]string{ //nolint:gochecknoglobals // frozen lookup table
	"norte de san": "norte de santander",
}

// Normalize canonicalizes raw according to kind. Empty input yields "".
//
// All kinds lowercase, strip diacritics (NFD + drop combining marks) and
// collapse whitespace. Department names then map "ñ" to "n" while
// municipality names drop it; both only matter for input the decomposition
// did not already split. Generic names also lose administrative affixes and
// go through the alias table. Labels (party and electoral place names)
// replace anything outside [a-z0-9 ] with a space.
func Normalize(raw string, kind types.Kind) string {
	s := fold(raw)
	if s == "" {
		return ""
	}

	switch kind {
	case types.KindDepartment:
		s = collapse(strings.NewReplacer("ñ", "n", "Ñ", "n").Replace(s))
	case types.KindMunicipality:
		s = collapse(strings.NewReplacer("ñ", "", "Ñ", "").Replace(s))
	case types.KindLabel:
		s = collapse(strings.Map(labelRune, s))
		if fixed, ok := labelFixes[s]; ok {
			s = fixed
		}
	default:
		s = stripAffixes(s)
		if alias, ok := aliases[s]; ok {
			s = alias
		}
	}
	return s
}

// Key normalizes a join key with the generic rules.
func Key(raw string) string { return Normalize(raw, types.KindGeneric) }

// IsPlaceholder reports whether a location value carries no information.
func IsPlaceholder(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return s == "" || s == Placeholder || s == "nan"
}

// fold lowercases, removes diacritics and collapses whitespace.
func fold(raw string) string {
	s := strings.ToLower(raw)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	return collapse(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func labelRune(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
		return r
	}
	return ' '
}

// stripAffixes removes administrative affixes until nothing changes.
func stripAffixes(s string) string {
	for {
		next := s
		for _, affix := range administrativeAffixes {
			next = strings.ReplaceAll(next, affix, " ")
		}
		next = dropToken(collapse(next), "dc")
		next = strings.Trim(next, " .,-")
		if next == s {
			return s
		}
		s = next
	}
}

func dropToken(s, token string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if strings.Trim(f, ".,") != token {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
