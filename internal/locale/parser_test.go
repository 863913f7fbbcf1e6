package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBRDate_FormatosEquivalentes(t *testing.T) {
	// Os três formatos devem resultar no mesmo dia civil
	esperado := ParseBRDate("25/12/2024")
	assert.Equal(t, 2024, esperado.Year())
	assert.Equal(t, 12, int(esperado.Month()))
	assert.Equal(t, 25, esperado.Day())

	assert.True(t, esperado.Equal(ParseBRDate("25-12-2024")))
	assert.True(t, esperado.Equal(ParseBRDate("2024-12-25")))
}

func TestParseBRDate_ComHora(t *testing.T) {
	got := ParseBRDate("25/12/2024 14:30:45")
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, 45, got.Second())

	iso := ParseBRDate("2024-12-25T14:30:45")
	assert.True(t, got.Equal(iso))
}

func TestParseBRDate_AnoDoisDigitos(t *testing.T) {
	got := ParseBRDate("05/03/24")
	assert.Equal(t, 2024, got.Year())
}

func TestParseBRDate_InvalidaViraSentinela(t *testing.T) {
	casos := []string{"", "lixo", "32/13/2024", "2024", "//", "ab/cd/efgh"}
	for _, c := range casos {
		got := ParseBRDate(c)
		assert.True(t, IsSentinel(got), "entrada %q deveria virar sentinela", c)
	}
}

func TestParseBRNumber(t *testing.T) {
	assert.Equal(t, 1234.56, ParseBRNumber("1.234,56"))
	assert.Equal(t, 1.5, ParseBRNumber("1,5"))
	assert.Equal(t, 33.33, ParseBRNumber("33,33"))
	assert.Equal(t, 10.0, ParseBRNumber("10"))
	assert.Equal(t, 1234.56, ParseBRNumber("1,234.56"))
	assert.Equal(t, 25.9, ParseBRNumber("R$ 25,90"))
	assert.Equal(t, 0.0, ParseBRNumber(""))
	assert.Equal(t, 0.0, ParseBRNumber("abc"))
}

func TestNormalizeDoc(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeDoc("123.456.789-01"))
	assert.Equal(t, "00000012345", NormalizeDoc("12345"))
	// Mais de 11 dígitos: mantém os últimos 11
	assert.Equal(t, "12345678901", NormalizeDoc("9912345678901"))
	assert.Equal(t, "", NormalizeDoc(""))
	assert.Equal(t, "", NormalizeDoc("sem digito"))
	// Sempre 11 chars ou vazio
	for _, in := range []string{"1", "123456789012345", "abc123"} {
		out := NormalizeDoc(in)
		if out != "" {
			assert.Len(t, out, 11)
		}
	}
}

func TestIsPlaceholderName(t *testing.T) {
	assert.True(t, IsPlaceholderName(""))
	assert.True(t, IsPlaceholderName("Cliente 123"))
	assert.True(t, IsPlaceholderName("12345678901"))
	assert.True(t, IsPlaceholderName("N/D"))
	assert.False(t, IsPlaceholderName("Maria Souza"))
	assert.False(t, IsPlaceholderName("Cliente Fiel Ltda"))
}
