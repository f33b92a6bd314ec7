package mortality

import (
	"sort"
	"strings"
)

// The seven view queries. Each is a pure function of (dataset, filters):
// rows are counted into groups, groups are emitted in ascending key order
// (absent keys last) and ranked views then re-sort by count with a stable
// sort, so equal counts tie-break by ascending group key. Same inputs, same
// rows, same order, every time.

// HomicideCodePrefix qualifies a death as a homicide by its ICD-10 code,
// independently of the manner-of-death field. The two are inconsistently
// coded in the source, so either signal counts.
const HomicideCodePrefix = "X95"

const homicideManner = "HOMICIDIO"

// DepartmentDeaths is one row of the by-department map view.
type DepartmentDeaths struct {
	DepartmentCode string `json:"cod_departamento"`
	Department     string `json:"departamento"`
	Deaths         int    `json:"muertes"`
}

// MonthDeaths is one row of the monthly series.
type MonthDeaths struct {
	Month  int `json:"mes"`
	Deaths int `json:"muertes"`
}

// CityDeaths is one row of the municipality ranking views.
type CityDeaths struct {
	Municipality string `json:"municipio"`
	Department   string `json:"departamento"`
	Deaths       int    `json:"muertes"`
}

// CauseDeaths is one row of the top-causes view.
type CauseDeaths struct {
	CauseCode   string `json:"cod_muerte"`
	Description string `json:"descripcion"`
	Deaths      int    `json:"muertes"`
}

// SexDeaths is one row of the by-department stacked bars.
type SexDeaths struct {
	Department string `json:"departamento"`
	Sex        string `json:"sexo"`
	Deaths     int    `json:"muertes"`
}

// AgeBracketDeaths is one row of the age histogram.
type AgeBracketDeaths struct {
	Bracket string `json:"categoria_edad"`
	Deaths  int    `json:"muertes"`
}

// DeathsByDepartment counts deaths per department for the map view. The
// manner filter compares case-insensitively; rows whose department code never
// resolved are dropped, an unresolved department name shows as SIN REGISTRO.
func (ds *Dataset) DeathsByDepartment(f Filters, manner Filter) []DepartmentDeaths {
	records := f.Apply(ds.Records)

	groups := groupPairs(records, func(rec Record) (pairKey, bool) {
		if !manner.keepsFold(rec.MannerOfDeath) {
			return pairKey{}, false
		}
		return pairKey{a: rec.DepartmentCode, b: rec.Department}, true
	})

	out := make([]DepartmentDeaths, 0, len(groups))
	for _, g := range groups {
		if !g.key.a.Valid {
			continue
		}
		out = append(out, DepartmentDeaths{
			DepartmentCode: g.key.a.String,
			Department:     g.key.b.Or(NoRecordLabel),
			Deaths:         g.deaths,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deaths > out[j].Deaths })
	return out
}

// MonthlySeries counts deaths per month, ascending by month. Rows whose month
// cell did not parse are excluded from this view only.
func (ds *Dataset) MonthlySeries(f Filters) []MonthDeaths {
	records := f.Apply(ds.Records)

	counts := make(map[int]int)
	for _, rec := range records {
		if rec.Month == 0 {
			continue
		}
		counts[rec.Month]++
	}

	out := make([]MonthDeaths, 0, len(counts))
	for month, deaths := range counts {
		out = append(out, MonthDeaths{Month: month, Deaths: deaths})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopViolentCities ranks municipalities by homicide deaths, capped at 5.
func (ds *Dataset) TopViolentCities(f Filters) []CityDeaths {
	records := f.Apply(ds.Records)

	groups := groupPairs(records, func(rec Record) (pairKey, bool) {
		if !isHomicide(rec) {
			return pairKey{}, false
		}
		return pairKey{a: rec.Municipality, b: rec.Department}, true
	})

	out := cityRows(groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deaths > out[j].Deaths })
	return capRows(out, 5)
}

// LowestMortalityCities ranks municipalities by total deaths ascending,
// capped at 10. Municipalities with no matching rows form no group at all,
// so zero-count entries can never appear.
func (ds *Dataset) LowestMortalityCities(f Filters) []CityDeaths {
	records := f.Apply(ds.Records)

	groups := groupPairs(records, func(rec Record) (pairKey, bool) {
		return pairKey{a: rec.Municipality, b: rec.Department}, true
	})

	out := cityRows(groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deaths < out[j].Deaths })
	return capRows(out, 10)
}

// TopCauses ranks ICD-10 causes by deaths, capped at 10.
func (ds *Dataset) TopCauses(f Filters) []CauseDeaths {
	records := f.Apply(ds.Records)

	groups := groupPairs(records, func(rec Record) (pairKey, bool) {
		return pairKey{a: rec.CauseCode, b: rec.CauseDescription}, true
	})

	out := make([]CauseDeaths, 0, len(groups))
	for _, g := range groups {
		out = append(out, CauseDeaths{
			CauseCode:   g.key.a.Or(NoCauseCodeLabel),
			Description: g.key.b.Or(NoCauseDescriptionLabel),
			Deaths:      g.deaths,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deaths > out[j].Deaths })
	return capRows(out, 10)
}

// DeathsBySex counts deaths per (department, sex) for the stacked bars.
func (ds *Dataset) DeathsBySex(f Filters) []SexDeaths {
	records := f.Apply(ds.Records)

	groups := groupPairs(records, func(rec Record) (pairKey, bool) {
		return pairKey{a: rec.Department, b: NewString(rec.SexDesc)}, true
	})

	out := make([]SexDeaths, 0, len(groups))
	for _, g := range groups {
		out = append(out, SexDeaths{
			Department: g.key.a.Or(NoRecordLabel),
			Sex:        g.key.b.String,
			Deaths:     g.deaths,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deaths > out[j].Deaths })
	return out
}

// AgeHistogram counts deaths per life-stage bracket, in the fixed bracket
// order. Brackets with no rows are omitted.
func (ds *Dataset) AgeHistogram(f Filters) []AgeBracketDeaths {
	records := f.Apply(ds.Records)

	counts := make(map[string]int, len(AgeBracketOrder))
	for _, rec := range records {
		counts[rec.AgeBracket]++
	}

	out := make([]AgeBracketDeaths, 0, len(counts))
	for _, bracket := range AgeBracketOrder {
		if deaths, ok := counts[bracket]; ok {
			out = append(out, AgeBracketDeaths{Bracket: bracket, Deaths: deaths})
		}
	}
	return out
}

// isHomicide qualifies a row by manner of death or by ICD-10 code prefix.
func isHomicide(rec Record) bool {
	if rec.MannerOfDeath.Valid && strings.EqualFold(rec.MannerOfDeath.String, homicideManner) {
		return true
	}
	return rec.CauseCode.Valid &&
		strings.HasPrefix(strings.ToUpper(rec.CauseCode.String), HomicideCodePrefix)
}

// pairKey is a two-column group key; either column may be absent.
type pairKey struct {
	a, b NullString
}

type pairGroup struct {
	key    pairKey
	deaths int
}

// groupPairs buckets records by key and returns the groups in ascending key
// order, absent cells last. The key function also decides row inclusion.
func groupPairs(records []Record, key func(Record) (pairKey, bool)) []pairGroup {
	counts := make(map[pairKey]int)
	for _, rec := range records {
		k, ok := key(rec)
		if !ok {
			continue
		}
		counts[k]++
	}

	groups := make([]pairGroup, 0, len(counts))
	for k, n := range counts {
		groups = append(groups, pairGroup{key: k, deaths: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		return lessPair(groups[i].key, groups[j].key)
	})
	return groups
}

func lessPair(x, y pairKey) bool {
	if x.a.Valid != y.a.Valid || x.a.String != y.a.String {
		return lessCell(x.a, y.a)
	}
	return lessCell(x.b, y.b)
}

// lessCell orders present values ascending and places absent ones last.
func lessCell(x, y NullString) bool {
	if x.Valid != y.Valid {
		return x.Valid
	}
	return x.String < y.String
}

func cityRows(groups []pairGroup) []CityDeaths {
	out := make([]CityDeaths, 0, len(groups))
	for _, g := range groups {
		if !g.key.a.Valid {
			continue
		}
		out = append(out, CityDeaths{
			Municipality: g.key.a.String,
			Department:   g.key.b.Or(NoRecordLabel),
			Deaths:       g.deaths,
		})
	}
	return out
}

func capRows[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
