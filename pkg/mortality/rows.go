package mortality

// Raw rows are the loader contract: one struct per source table, every cell
// as the text it arrived in. The builder owns all parsing and normalization,
// so a loader never has to care about leading zeros or trailing ".0".

// MortalityRow is one death record from the national registry annex.
type MortalityRow struct {
	DaneCode         string // COD_DANE, municipality-level division code
	DepartmentCode   string // COD_DEPARTAMENTO
	MunicipalityCode string // COD_MUNICIPIO
	CauseCode        string // COD_MUERTE, 4-char ICD-10 code
	MannerOfDeath    string // MANERA_MUERTE, free text
	Sex              string // SEXO, 1/2/other
	AgeGroupCode     string // GRUPO_EDAD1, 0-29
	Month            string // MES, 1-12
}

// CauseRow is one ICD-10 catalog entry.
type CauseRow struct {
	Chapter      string
	ChapterName  string
	Code3        string
	Description3 string
	Code4        string // join key after trim + uppercase
	Description4 string
}

// DivisionRow is one DIVIPOLA administrative-division entry.
type DivisionRow struct {
	DaneCode         string
	DepartmentCode   string
	MunicipalityCode string
	DepartmentName   string
	MunicipalityName string
}

// Record is one enriched death record, the unit every aggregate operates on.
// Records are built once and never mutated afterwards.
type Record struct {
	DaneCode         NullString // zero-padded to 5
	DepartmentCode   NullString // zero-padded to 2, DIVIPOLA value wins on conflict
	MunicipalityCode NullString // zero-padded to 3
	CauseCode        NullString // trimmed + uppercased
	MannerOfDeath    NullString // trimmed
	Month            int        // 0 when the cell did not parse
	AgeBracket       string     // always one of AgeBracketOrder
	SexDesc          string     // "Masculino" / "Femenino" / SexUnknown

	// Joined in from DIVIPOLA; absent when the division code had no match.
	Department   NullString // uppercased department name
	Municipality NullString // uppercased municipality name

	// Joined in from the ICD-10 catalog; absent when the cause had no match.
	Chapter          NullString
	ChapterName      NullString
	Code3            NullString
	Description3     NullString
	CauseDescription NullString
}

// Sex descriptions for the two coded values; everything else maps to
// SexUnknown.
const (
	SexMale    = "Masculino"
	SexFemale  = "Femenino"
	SexUnknown = "Sin información"
)

// Labels substituted by the aggregates when a grouped key is absent.
const (
	NoRecordLabel           = "SIN REGISTRO"
	NoCauseCodeLabel        = "Sin código"
	NoCauseDescriptionLabel = "Descripción no disponible"
)
