package excel

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colstats/mortality/pkg/mortality"
)

func testFiles() Files {
	return Files{
		Mortality:      "mortalidad.xlsx",
		MortalitySheet: "No_Fetales_2019",
		CauseCatalog:   "codigos.xlsx",
		Divisions:      "divipola.xlsx",
	}
}

// writeWorkbook creates a single-sheet workbook fixture.
func writeWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()

	f := xlsx.NewFile()
	if sheet != "" && sheet != "Sheet1" {
		f.NewSheet(sheet)
		f.DeleteSheet("Sheet1")
	} else {
		sheet = "Sheet1"
	}

	for i, row := range rows {
		axis, err := xlsx.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	files := testFiles()

	writeWorkbook(t, filepath.Join(dir, files.Mortality), files.MortalitySheet, [][]interface{}{
		{"COD_DANE", "COD_DEPARTAMENTO", "COD_MUNICIPIO", "COD_MUERTE", "MANERA_MUERTE", "SEXO", "GRUPO_EDAD1", "MES"},
		// Excel stores the codes as numbers, not text.
		{5001, 5, 1, "X950", "Homicidio", 1, 16, 1},
		{11001, 11, 1, "I219", "Natural", 2, 22, 2},
	})

	catalog := [][]interface{}{}
	for i := 0; i < causeCatalogSkipRows; i++ {
		catalog = append(catalog, []interface{}{fmt.Sprintf("preamble %d", i)})
	}
	catalog = append(catalog,
		[]interface{}{20, "Causas externas", "X95", "Agresión con disparo de arma de fuego", "X950", "Agresión con disparo de arma, vía pública"},
		[]interface{}{9, "Circulatorio", "I21", "Infarto agudo del miocardio", "I219", "Infarto, sin especificar"},
	)
	writeWorkbook(t, filepath.Join(dir, files.CauseCatalog), "", catalog)

	writeWorkbook(t, filepath.Join(dir, files.Divisions), "", [][]interface{}{
		{"COD_DANE", "COD_DEPARTAMENTO", "COD_MUNICIPIO", "DEPARTAMENTO", "MUNICIPIO"},
		{5001, 5, 1, "Antioquia", "Medellín"},
		{11001, 11, 1, "Bogotá, D.C.", "Bogotá, D.C."},
	})
}

func TestLoaderReadsAllThreeSources(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)
	loader := NewLoader(dir, testFiles(), nil)

	records, err := loader.Mortality()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "5001", records[0].DaneCode)
	assert.Equal(t, "X950", records[0].CauseCode)
	assert.Equal(t, "Homicidio", records[0].MannerOfDeath)
	assert.Equal(t, "1", records[0].Sex)
	assert.Equal(t, "16", records[0].AgeGroupCode)
	assert.Equal(t, "2", records[1].Month)

	causes, err := loader.CauseCatalog()
	require.NoError(t, err)
	require.Len(t, causes, 2)
	assert.Equal(t, "X950", causes[0].Code4)
	assert.Equal(t, "Agresión con disparo de arma, vía pública", causes[0].Description4)

	divisions, err := loader.Divisions()
	require.NoError(t, err)
	require.Len(t, divisions, 2)
	assert.Equal(t, "Antioquia", divisions[0].DepartmentName)
	assert.Equal(t, "Medellín", divisions[0].MunicipalityName)
}

func TestLoaderFeedsBuilderEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	builder := mortality.NewBuilder(NewLoader(dir, testFiles(), nil), nil)
	ds, err := builder.Dataset()
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)

	assert.Equal(t, mortality.NewString("05001"), ds.Records[0].DaneCode)
	assert.Equal(t, mortality.NewString("ANTIOQUIA"), ds.Records[0].Department)
	assert.Equal(t, mortality.NewString("Agresión con disparo de arma, vía pública"), ds.Records[0].CauseDescription)
	assert.Equal(t, mortality.SexFemale, ds.Records[1].SexDesc)
}

func TestMissingWorkbookIsMissingSource(t *testing.T) {
	loader := NewLoader(t.TempDir(), testFiles(), nil)

	_, err := loader.Mortality()
	require.Error(t, err)
	assert.True(t, errors.Is(err, mortality.ErrMissingSource))

	_, err = loader.CauseCatalog()
	assert.True(t, errors.Is(err, mortality.ErrMissingSource))

	_, err = loader.Divisions()
	assert.True(t, errors.Is(err, mortality.ErrMissingSource))
}

func TestMissingColumnFailsTheSource(t *testing.T) {
	dir := t.TempDir()
	files := testFiles()
	writeWorkbook(t, filepath.Join(dir, files.Mortality), files.MortalitySheet, [][]interface{}{
		{"COD_DANE", "SEXO"},
		{5001, 1},
	})

	loader := NewLoader(dir, files, nil)
	_, err := loader.Mortality()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestMissingSheetFailsTheSource(t *testing.T) {
	dir := t.TempDir()
	files := testFiles()
	writeWorkbook(t, filepath.Join(dir, files.Mortality), "Otra_Hoja", [][]interface{}{
		{"COD_DANE"},
	})

	loader := NewLoader(dir, files, nil)
	_, err := loader.Mortality()
	assert.Error(t, err)
}
