package mortality

import "sort"

// Options are the distinct values available per filter dimension, computed
// from the dataset so the presentation layer can populate its dropdowns.
type Options struct {
	Sexes       []string `json:"sexos"`
	Departments []string `json:"departamentos"`
	AgeBrackets []string `json:"categorias_edad"`
	Manners     []string `json:"maneras_muerte"`
}

// Summary is a coarse description of the enriched row-set.
type Summary struct {
	TotalDeaths    int `json:"total_muertes"`
	Departments    int `json:"departamentos"`
	Municipalities int `json:"municipios"`
	Months         int `json:"meses"`
}

// FilterOptions lists the sorted distinct non-absent values per dimension.
// Age brackets keep their canonical order, restricted to brackets present.
func (ds *Dataset) FilterOptions() Options {
	sexes := make(map[string]bool)
	departments := make(map[string]bool)
	brackets := make(map[string]bool)
	manners := make(map[string]bool)

	for _, rec := range ds.Records {
		sexes[rec.SexDesc] = true
		brackets[rec.AgeBracket] = true
		if rec.Department.Valid {
			departments[rec.Department.String] = true
		}
		if rec.MannerOfDeath.Valid {
			manners[rec.MannerOfDeath.String] = true
		}
	}

	opts := Options{
		Sexes:       sortedKeys(sexes),
		Departments: sortedKeys(departments),
		Manners:     sortedKeys(manners),
	}
	for _, bracket := range AgeBracketOrder {
		if brackets[bracket] {
			opts.AgeBrackets = append(opts.AgeBrackets, bracket)
		}
	}
	return opts
}

// Summarize counts the row total and distinct departments, municipalities
// and covered months.
func (ds *Dataset) Summarize() Summary {
	departments := make(map[string]bool)
	municipalities := make(map[string]bool)
	months := make(map[int]bool)

	for _, rec := range ds.Records {
		if rec.Department.Valid {
			departments[rec.Department.String] = true
		}
		if rec.Municipality.Valid {
			municipalities[rec.Municipality.String] = true
		}
		if rec.Month != 0 {
			months[rec.Month] = true
		}
	}

	return Summary{
		TotalDeaths:    len(ds.Records),
		Departments:    len(departments),
		Municipalities: len(municipalities),
		Months:         len(months),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
