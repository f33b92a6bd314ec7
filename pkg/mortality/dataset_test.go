package mortality

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	mortality []MortalityRow
	causes    []CauseRow
	divisions []DivisionRow

	mortalityErr error
	causeErr     error
	divisionErr  error

	loads int32
}

func (l *fakeLoader) Mortality() ([]MortalityRow, error) {
	atomic.AddInt32(&l.loads, 1)
	return l.mortality, l.mortalityErr
}

func (l *fakeLoader) CauseCatalog() ([]CauseRow, error) { return l.causes, l.causeErr }
func (l *fakeLoader) Divisions() ([]DivisionRow, error) { return l.divisions, l.divisionErr }

func testLoader() *fakeLoader {
	return &fakeLoader{
		mortality: []MortalityRow{
			// Medellín: codes arrive unpadded with a stale department code.
			{DaneCode: "5001", DepartmentCode: "99", MunicipalityCode: "1",
				CauseCode: " x950 ", MannerOfDeath: " Homicidio ", Sex: "1", AgeGroupCode: "16", Month: "1"},
			// Bogotá: codes arrive as floats.
			{DaneCode: "11001.0", DepartmentCode: "11.0", MunicipalityCode: "001",
				CauseCode: "I219", MannerOfDeath: "Natural", Sex: "2", AgeGroupCode: "22", Month: "2"},
			// Unknown division code, cause not in the catalog, odd sex code.
			{DaneCode: "99999", DepartmentCode: "98", MunicipalityCode: "999",
				CauseCode: "Z999", MannerOfDeath: "Natural", Sex: "3", AgeGroupCode: "29", Month: "3"},
			// Everything malformed.
			{DaneCode: "n/a", DepartmentCode: "", MunicipalityCode: "",
				CauseCode: "", MannerOfDeath: "", Sex: "", AgeGroupCode: "", Month: ""},
		},
		causes: []CauseRow{
			{Chapter: "20", ChapterName: "Causas externas", Code3: "X95",
				Description3: "Agresión con disparo de arma de fuego",
				Code4:        "x950 ", Description4: "Agresión con disparo de arma, vía pública"},
			{Chapter: "9", ChapterName: "Circulatorio", Code3: "I21",
				Description3: "Infarto agudo del miocardio",
				Code4:        "I219", Description4: "Infarto agudo del miocardio, sin especificar"},
			// No 4-character code: excluded from the catalog.
			{Chapter: "1", ChapterName: "Infecciosas", Code3: "A00", Description3: "Cólera", Code4: "  "},
		},
		divisions: []DivisionRow{
			{DaneCode: "5001", DepartmentCode: "5", MunicipalityCode: "1",
				DepartmentName: "Antioquia", MunicipalityName: "Medellín"},
			{DaneCode: "11001", DepartmentCode: "11", MunicipalityCode: "1",
				DepartmentName: " Bogotá, D.C. ", MunicipalityName: "Bogotá, D.C."},
			// Unjoinable entry, no division code.
			{DaneCode: "", DepartmentName: "Fantasma", MunicipalityName: "Fantasma"},
		},
	}
}

func buildTestDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewBuilder(testLoader(), zap.NewNop()).Dataset()
	require.NoError(t, err)
	return ds
}

func TestBuildEnrichesRecords(t *testing.T) {
	ds := buildTestDataset(t)
	require.Len(t, ds.Records, 4)

	medellin := ds.Records[0]
	assert.Equal(t, NewString("05001"), medellin.DaneCode)
	// Coalesce-left: DIVIPOLA's department code replaces the record's own.
	assert.Equal(t, NewString("05"), medellin.DepartmentCode)
	assert.Equal(t, NewString("001"), medellin.MunicipalityCode)
	assert.Equal(t, NewString("X950"), medellin.CauseCode)
	assert.Equal(t, NewString("Homicidio"), medellin.MannerOfDeath)
	assert.Equal(t, NewString("ANTIOQUIA"), medellin.Department)
	assert.Equal(t, NewString("MEDELLÍN"), medellin.Municipality)
	assert.Equal(t, NewString("Agresión con disparo de arma, vía pública"), medellin.CauseDescription)
	assert.Equal(t, NewString("X95"), medellin.Code3)
	assert.Equal(t, SexMale, medellin.SexDesc)
	assert.Equal(t, "Adultez temprana", medellin.AgeBracket)
	assert.Equal(t, 1, medellin.Month)

	bogota := ds.Records[1]
	assert.Equal(t, NewString("11001"), bogota.DaneCode)
	assert.Equal(t, NewString("11"), bogota.DepartmentCode)
	assert.Equal(t, NewString("BOGOTÁ, D.C."), bogota.Department)
	assert.Equal(t, SexFemale, bogota.SexDesc)
	assert.Equal(t, "Vejez", bogota.AgeBracket)
}

func TestBuildUnmatchedRowsDegrade(t *testing.T) {
	ds := buildTestDataset(t)

	unmatched := ds.Records[2]
	// Division join missed: names stay absent, the record's own code is kept.
	assert.False(t, unmatched.Department.Valid)
	assert.False(t, unmatched.Municipality.Valid)
	assert.Equal(t, NewString("98"), unmatched.DepartmentCode)
	// Cause join missed: description stays absent.
	assert.False(t, unmatched.CauseDescription.Valid)
	assert.Equal(t, SexUnknown, unmatched.SexDesc)
	assert.Equal(t, AgeBracketUnknown, unmatched.AgeBracket)

	malformed := ds.Records[3]
	assert.False(t, malformed.DaneCode.Valid)
	assert.False(t, malformed.CauseCode.Valid)
	assert.False(t, malformed.MannerOfDeath.Valid)
	assert.Equal(t, 0, malformed.Month)
	assert.Equal(t, SexUnknown, malformed.SexDesc)
	assert.Equal(t, AgeBracketUnknown, malformed.AgeBracket)
}

func TestDatasetBuiltExactlyOnce(t *testing.T) {
	loader := testLoader()
	builder := NewBuilder(loader, nil)

	first, err := builder.Dataset()
	require.NoError(t, err)
	second, err := builder.Dataset()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&loader.loads))
}

func TestDatasetBuildConcurrentFirstAccess(t *testing.T) {
	loader := testLoader()
	builder := NewBuilder(loader, nil)

	const goroutines = 16
	results := make([]*Dataset, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := builder.Dataset()
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&loader.loads))
	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestMissingSourceIsFatal(t *testing.T) {
	loader := testLoader()
	loader.divisionErr = ErrMissingSource

	builder := NewBuilder(loader, nil)
	ds, err := builder.Dataset()
	assert.Nil(t, ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSource))

	// The failure is terminal, later calls see the same error.
	_, again := builder.Dataset()
	assert.Equal(t, err, again)
}

func TestCatalogEntriesWithoutCode4AreExcluded(t *testing.T) {
	loader := testLoader()
	loader.mortality = []MortalityRow{
		{DaneCode: "5001", CauseCode: "A00", Sex: "1", AgeGroupCode: "11", Month: "1"},
	}
	ds, err := NewBuilder(loader, nil).Dataset()
	require.NoError(t, err)
	// "A00" only exists as a 3-character entry, so the join cannot resolve it.
	assert.False(t, ds.Records[0].CauseDescription.Valid)
}
