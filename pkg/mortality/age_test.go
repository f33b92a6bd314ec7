package mortality

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAgeCodeCoversWholeTable(t *testing.T) {
	for code := 0; code <= 28; code++ {
		label := ClassifyAgeCode(code)
		assert.NotEqual(t, AgeBracketUnknown, label, "code %d", code)
		assert.Contains(t, AgeBracketOrder, label, "code %d", code)
	}
	assert.Equal(t, AgeBracketUnknown, ClassifyAgeCode(29))
}

func TestClassifyAgeCodeOutOfRange(t *testing.T) {
	assert.Equal(t, AgeBracketUnknown, ClassifyAgeCode(-1))
	assert.Equal(t, AgeBracketUnknown, ClassifyAgeCode(30))
	assert.Equal(t, AgeBracketUnknown, ClassifyAgeCode(1000))
}

func TestClassifyAgeRawCells(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", "Mortalidad neonatal"},
		{"4", "Mortalidad neonatal"},
		{"5", "Mortalidad infantil"},
		{"11", "Adolescencia"},
		{"13.0", "Juventud"},
		{"24", "Vejez"},
		{"28", "Longevidad / Centenarios"},
		{"29", AgeBracketUnknown},
		{"", AgeBracketUnknown},
		{"  ", AgeBracketUnknown},
		{"nope", AgeBracketUnknown},
		{"12.7", AgeBracketUnknown},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAge(tt.raw))
		})
	}
}

func TestAgeBracketOrderContract(t *testing.T) {
	require.Len(t, AgeBracketOrder, 11)
	assert.Equal(t, "Mortalidad neonatal", AgeBracketOrder[0])
	assert.Equal(t, AgeBracketUnknown, AgeBracketOrder[len(AgeBracketOrder)-1])

	// Every table entry maps onto a bracket that is actually displayable.
	seen := make(map[string]bool)
	for _, label := range ageBrackets {
		seen[label] = true
	}
	for _, label := range AgeBracketOrder {
		assert.True(t, seen[label], "bracket %q unreachable from any code", label)
	}
}
