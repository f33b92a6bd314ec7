package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/colstats/mortality/pkg/mortality"
)

// Files names the three workbooks inside the data directory, plus the
// worksheet carrying the mortality annex.
type Files struct {
	Mortality      string
	MortalitySheet string
	CauseCatalog   string
	Divisions      string
}

// causeCatalogSkipRows is the preamble of the ICD-10 catalog workbook before
// data starts; the catalog has no header row.
const causeCatalogSkipRows = 5

// Mortality annex and DIVIPOLA columns, matched by header name.
const (
	colDaneCode         = "COD_DANE"
	colDepartmentCode   = "COD_DEPARTAMENTO"
	colMunicipalityCode = "COD_MUNICIPIO"
	colCauseCode        = "COD_MUERTE"
	colMannerOfDeath    = "MANERA_MUERTE"
	colSex              = "SEXO"
	colAgeGroup         = "GRUPO_EDAD1"
	colMonth            = "MES"
	colDepartmentName   = "DEPARTAMENTO"
	colMunicipalityName = "MUNICIPIO"
)

// Loader reads the three raw tables from workbook files.
type Loader struct {
	dataDir string
	files   Files
	log     *zap.Logger
}

// NewLoader builds a workbook loader rooted at dataDir.
func NewLoader(dataDir string, files Files, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{dataDir: dataDir, files: files, log: log}
}

// Mortality reads the non-fetal mortality annex sheet.
func (l *Loader) Mortality() ([]mortality.MortalityRow, error) {
	path := filepath.Join(l.dataDir, l.files.Mortality)
	rows, err := readRows(path, l.files.MortalitySheet)
	if err != nil {
		return nil, err
	}

	header, err := headerIndex(rows, path,
		colDaneCode, colDepartmentCode, colMunicipalityCode,
		colCauseCode, colMannerOfDeath, colSex, colAgeGroup, colMonth)
	if err != nil {
		return nil, err
	}

	out := make([]mortality.MortalityRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, mortality.MortalityRow{
			DaneCode:         cell(row, header[colDaneCode]),
			DepartmentCode:   cell(row, header[colDepartmentCode]),
			MunicipalityCode: cell(row, header[colMunicipalityCode]),
			CauseCode:        cell(row, header[colCauseCode]),
			MannerOfDeath:    cell(row, header[colMannerOfDeath]),
			Sex:              cell(row, header[colSex]),
			AgeGroupCode:     cell(row, header[colAgeGroup]),
			Month:            cell(row, header[colMonth]),
		})
	}

	l.log.Info("mortality annex loaded", zap.String("file", l.files.Mortality), zap.Int("rows", len(out)))
	return out, nil
}

// CauseCatalog reads the ICD-10 code catalog. The workbook carries a fixed
// preamble and positional columns instead of a header row.
func (l *Loader) CauseCatalog() ([]mortality.CauseRow, error) {
	path := filepath.Join(l.dataDir, l.files.CauseCatalog)
	rows, err := readRows(path, "")
	if err != nil {
		return nil, err
	}
	if len(rows) <= causeCatalogSkipRows {
		return nil, fmt.Errorf("cause catalog %s has no data rows", path)
	}

	out := make([]mortality.CauseRow, 0, len(rows)-causeCatalogSkipRows)
	for _, row := range rows[causeCatalogSkipRows:] {
		out = append(out, mortality.CauseRow{
			Chapter:      cell(row, 0),
			ChapterName:  cell(row, 1),
			Code3:        cell(row, 2),
			Description3: cell(row, 3),
			Code4:        cell(row, 4),
			Description4: cell(row, 5),
		})
	}

	l.log.Info("cause catalog loaded", zap.String("file", l.files.CauseCatalog), zap.Int("rows", len(out)))
	return out, nil
}

// Divisions reads the DIVIPOLA administrative-division table.
func (l *Loader) Divisions() ([]mortality.DivisionRow, error) {
	path := filepath.Join(l.dataDir, l.files.Divisions)
	rows, err := readRows(path, "")
	if err != nil {
		return nil, err
	}

	header, err := headerIndex(rows, path,
		colDaneCode, colDepartmentCode, colMunicipalityCode,
		colDepartmentName, colMunicipalityName)
	if err != nil {
		return nil, err
	}

	out := make([]mortality.DivisionRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, mortality.DivisionRow{
			DaneCode:         cell(row, header[colDaneCode]),
			DepartmentCode:   cell(row, header[colDepartmentCode]),
			MunicipalityCode: cell(row, header[colMunicipalityCode]),
			DepartmentName:   cell(row, header[colDepartmentName]),
			MunicipalityName: cell(row, header[colMunicipalityName]),
		})
	}

	l.log.Info("division catalog loaded", zap.String("file", l.files.Divisions), zap.Int("rows", len(out)))
	return out, nil
}

// headerIndex maps required column names to their positions in the first
// row. A missing column makes the whole source unreadable.
func headerIndex(rows [][]string, path string, required ...string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s is empty", path)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("workbook %s is missing column %q", path, name)
		}
	}
	return index, nil
}
