package mortality

import "strings"

// Filter selects rows for one dimension. The zero value matches everything,
// so there is no reserved "ALL" string that a real category could collide
// with. Construct real filters with Match.
type Filter struct {
	value  string
	active bool
}

// All matches every row.
func All() Filter { return Filter{} }

// Match keeps only rows whose field equals v exactly.
func Match(v string) Filter { return Filter{value: v, active: true} }

// Active reports whether the filter narrows at all.
func (f Filter) Active() bool { return f.active }

// Value returns the matched value; empty for All.
func (f Filter) Value() string { return f.value }

// keeps is a case-sensitive exact match against an always-present field.
func (f Filter) keeps(v string) bool {
	return !f.active || v == f.value
}

// keepsCell matches a nullable field; absent cells never match a real filter,
// mirroring how an unmatched join key falls out of a filtered view.
func (f Filter) keepsCell(ns NullString) bool {
	if !f.active {
		return true
	}
	return ns.Valid && ns.String == f.value
}

// keepsFold is the case-insensitive variant used only for manner of death.
func (f Filter) keepsFold(ns NullString) bool {
	if !f.active {
		return true
	}
	return ns.Valid && strings.EqualFold(ns.String, f.value)
}

// Filters are the three dashboard-wide dimensions. They compose with AND.
type Filters struct {
	Sex        Filter
	Department Filter
	AgeBracket Filter
}

// Apply returns the records matching every active filter. With all filters
// inactive the input records are returned as-is.
func (f Filters) Apply(records []Record) []Record {
	if !f.Sex.active && !f.Department.active && !f.AgeBracket.active {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if !f.Sex.keeps(rec.SexDesc) {
			continue
		}
		if !f.Department.keepsCell(rec.Department) {
			continue
		}
		if !f.AgeBracket.keeps(rec.AgeBracket) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
