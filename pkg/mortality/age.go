package mortality

import (
	"math"
	"strconv"
	"strings"
)

// AgeBracketUnknown is returned for the reserved code 29 and for any code the
// table does not know. There is no separate "unrecognized" bracket.
const AgeBracketUnknown = "Edad desconocida"

// AgeBracketOrder is the fixed display order of the eleven life-stage
// brackets. The age histogram renders in this order, never alphabetically.
var AgeBracketOrder = []string{
	"Mortalidad neonatal",
	"Mortalidad infantil",
	"Primera infancia",
	"Niñez",
	"Adolescencia",
	"Juventud",
	"Adultez temprana",
	"Adultez intermedia",
	"Vejez",
	"Longevidad / Centenarios",
	AgeBracketUnknown,
}

// ageBrackets maps the registry's GRUPO_EDAD1 codes (0-29) to brackets.
var ageBrackets = map[int]string{
	0: "Mortalidad neonatal", 1: "Mortalidad neonatal", 2: "Mortalidad neonatal",
	3: "Mortalidad neonatal", 4: "Mortalidad neonatal",
	5: "Mortalidad infantil", 6: "Mortalidad infantil",
	7: "Primera infancia", 8: "Primera infancia",
	9: "Niñez", 10: "Niñez",
	11: "Adolescencia",
	12: "Juventud", 13: "Juventud",
	14: "Adultez temprana", 15: "Adultez temprana", 16: "Adultez temprana",
	17: "Adultez intermedia", 18: "Adultez intermedia", 19: "Adultez intermedia",
	20: "Vejez", 21: "Vejez", 22: "Vejez", 23: "Vejez", 24: "Vejez",
	25: "Longevidad / Centenarios", 26: "Longevidad / Centenarios",
	27: "Longevidad / Centenarios", 28: "Longevidad / Centenarios",
	29: AgeBracketUnknown,
}

// ClassifyAgeCode maps an age-group code to its bracket label. Codes outside
// 0-29 collapse into the unknown-age bracket.
func ClassifyAgeCode(code int) string {
	if label, ok := ageBrackets[code]; ok {
		return label
	}
	return AgeBracketUnknown
}

// ClassifyAge classifies a raw age-group cell. Empty or unparseable cells
// classify as unknown age rather than failing.
func ClassifyAge(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return AgeBracketUnknown
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return AgeBracketUnknown
	}
	return ClassifyAgeCode(int(f))
}
