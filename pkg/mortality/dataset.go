package mortality

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrMissingSource marks a required input table that is absent or unreadable.
// A build that hits it produces no dataset at all; bad values inside a row
// never trigger it.
var ErrMissingSource = errors.New("required source missing")

// Loader delivers the three raw tables. The contract is field-name based:
// the builder does not care whether rows came from a workbook, a CSV or a
// test fixture.
type Loader interface {
	Mortality() ([]MortalityRow, error)
	CauseCatalog() ([]CauseRow, error)
	Divisions() ([]DivisionRow, error)
}

// Dataset is the enriched, immutable row-set. It is safe to share across
// concurrent readers; no aggregate mutates it.
type Dataset struct {
	Records []Record
}

// Builder constructs the dataset at most once per process and hands out the
// same snapshot afterwards, even under concurrent first access.
type Builder struct {
	loader Loader
	log    *zap.Logger

	once sync.Once
	ds   *Dataset
	err  error
}

// NewBuilder wires a loader. A nil logger is replaced with a no-op one.
func NewBuilder(loader Loader, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{loader: loader, log: log}
}

// Dataset returns the enriched row-set, building it on first call. A failed
// build is terminal: every later call returns the same error.
func (b *Builder) Dataset() (*Dataset, error) {
	b.once.Do(func() {
		b.ds, b.err = b.build()
	})
	return b.ds, b.err
}

func (b *Builder) build() (*Dataset, error) {
	start := time.Now()

	records, err := b.loader.Mortality()
	if err != nil {
		return nil, fmt.Errorf("load mortality records: %w", err)
	}
	causes, err := b.loader.CauseCatalog()
	if err != nil {
		return nil, fmt.Errorf("load cause catalog: %w", err)
	}
	divisions, err := b.loader.Divisions()
	if err != nil {
		return nil, fmt.Errorf("load division catalog: %w", err)
	}

	divIndex := indexDivisions(divisions)
	causeIndex := indexCauses(causes)

	out := make([]Record, 0, len(records))
	var unmatchedDivision, unmatchedCause int

	for _, raw := range records {
		rec := Record{
			DaneCode:         NormalizeNumericCode(raw.DaneCode, 5),
			DepartmentCode:   NormalizeNumericCode(raw.DepartmentCode, 2),
			MunicipalityCode: NormalizeNumericCode(raw.MunicipalityCode, 3),
			CauseCode:        upperCell(cleanCell(raw.CauseCode)),
			MannerOfDeath:    cleanCell(raw.MannerOfDeath),
			Month:            parseMonth(raw.Month),
			AgeBracket:       ClassifyAge(raw.AgeGroupCode),
			SexDesc:          sexDescription(raw.Sex),
		}

		matched := false
		if rec.DaneCode.Valid {
			if div, ok := divIndex[rec.DaneCode.String]; ok {
				matched = true
				rec.Department = upperCell(div.departmentName)
				rec.Municipality = upperCell(div.municipalityName)
				// Coalesce-left: the catalog's department code wins when present.
				if div.departmentCode.Valid {
					rec.DepartmentCode = div.departmentCode
				}
			}
		}
		if !matched {
			unmatchedDivision++
		}

		if rec.CauseCode.Valid {
			if cause, ok := causeIndex[rec.CauseCode.String]; ok {
				rec.Chapter = cleanCell(cause.Chapter)
				rec.ChapterName = cleanCell(cause.ChapterName)
				rec.Code3 = cleanCell(cause.Code3)
				rec.Description3 = cleanCell(cause.Description3)
				rec.CauseDescription = cleanCell(cause.Description4)
			} else {
				unmatchedCause++
			}
		} else {
			unmatchedCause++
		}

		out = append(out, rec)
	}

	b.log.Info("dataset built",
		zap.Int("records", len(out)),
		zap.Int("divisions", len(divIndex)),
		zap.Int("causes", len(causeIndex)),
		zap.Int("unmatched_division", unmatchedDivision),
		zap.Int("unmatched_cause", unmatchedCause),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Dataset{Records: out}, nil
}

type divisionEntry struct {
	departmentCode   NullString
	departmentName   NullString
	municipalityName NullString
}

// indexDivisions keys DIVIPOLA by the 5-digit division code. Entries whose
// code does not normalize cannot be joined and are skipped.
func indexDivisions(rows []DivisionRow) map[string]divisionEntry {
	index := make(map[string]divisionEntry, len(rows))
	for _, row := range rows {
		code := NormalizeNumericCode(row.DaneCode, 5)
		if !code.Valid {
			continue
		}
		index[code.String] = divisionEntry{
			departmentCode:   NormalizeNumericCode(row.DepartmentCode, 2),
			departmentName:   cleanCell(row.DepartmentName),
			municipalityName: cleanCell(row.MunicipalityName),
		}
	}
	return index
}

// indexCauses keys the ICD-10 catalog by the 4-character code. Entries with
// no 4-character code are excluded, they cannot be joined.
func indexCauses(rows []CauseRow) map[string]CauseRow {
	index := make(map[string]CauseRow, len(rows))
	for _, row := range rows {
		code := strings.ToUpper(CleanString(row.Code4))
		if code == "" {
			continue
		}
		index[code] = row
	}
	return index
}

func sexDescription(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return SexUnknown
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return SexUnknown
	}
	switch int(f) {
	case 1:
		return SexMale
	case 2:
		return SexFemale
	default:
		return SexUnknown
	}
}

func parseMonth(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}
