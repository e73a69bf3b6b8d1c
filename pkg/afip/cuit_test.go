package afip_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/pkg/afip"
)

func TestValidateCUIT_Validos(t *testing.T) {
	valid := []string{
		"20-12345678-6",
		"20123456786",
		"27-98765432-4",
		"30-71234567-1",
		"23000000000", // resto 11 -> verificador 0
		"20010000009", // resto 10 -> verificador 9
		" 20 12345678 6 ",
	}
	for _, c := range valid {
		assert.True(t, afip.ValidateCUIT(c), "debe ser válido: %q", c)
	}
}

func TestValidateCUIT_Invalidos(t *testing.T) {
	invalid := []string{
		"",
		"20-12345678-0",
		"27-98765432-0",
		"2012345678",
		"201234567861",
		"20-1234567A-6",
		"abcdefghijk",
	}
	for _, c := range invalid {
		assert.False(t, afip.ValidateCUIT(c), "debe ser inválido: %q", c)
	}
}

func TestVerifyCUIT_InformaDigitoEsperado(t *testing.T) {
	err := afip.VerifyCUIT("20-12345678-0")
	var cdErr *afip.CheckDigitError
	require.True(t, errors.As(err, &cdErr), "debe devolver CheckDigitError")
	assert.Equal(t, 0, cdErr.Provided)
	assert.Equal(t, 6, cdErr.Expected)

	assert.ErrorIs(t, afip.VerifyCUIT("123"), afip.ErrCUITFormat)
	assert.NoError(t, afip.VerifyCUIT("20123456786"))
}

func TestFormatCUIT(t *testing.T) {
	f, ok := afip.FormatCUIT("27987654324")
	require.True(t, ok)
	assert.Equal(t, "27-98765432-4", f)

	// el formato no exige verificador correcto
	f, ok = afip.FormatCUIT("20123456780")
	require.True(t, ok)
	assert.Equal(t, "20-12345678-0", f)

	_, ok = afip.FormatCUIT("2012345")
	assert.False(t, ok)
}

func TestFormatCUIT_Idempotente(t *testing.T) {
	once, ok := afip.FormatCUIT("20123456786")
	require.True(t, ok)
	twice, ok := afip.FormatCUIT(once)
	require.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestClassifyCUIT(t *testing.T) {
	cases := map[string]afip.PersonType{
		"20-12345678-6": afip.PersonMale,
		"23000000000":   afip.PersonNonResident,
		"24-00000000-0": afip.PersonNew,
		"27-98765432-4": afip.PersonFemale,
		"30-71234567-1": afip.LegalEntity,
		"33-00000000-0": afip.LegalEntityNational,
		"34-00000000-0": afip.LegalEntityForeign,
		"99-12345678-0": afip.PersonTypeUnknown,
		"":              afip.PersonTypeUnknown,
	}
	for cuit, want := range cases {
		assert.Equal(t, want, afip.ClassifyCUIT(cuit), "cuit %q", cuit)
	}
	assert.True(t, afip.ClassifyCUIT("30712345671").IsLegalEntity())
	assert.False(t, afip.ClassifyCUIT("20123456786").IsLegalEntity())
}

// Todo CUIT generado debe pasar la validación.
func TestGenerateValidCUIT_SiempreValido(t *testing.T) {
	for _, prefix := range []string{"", "20", "23", "27", "30", "33"} {
		for i := 0; i < 100; i++ {
			c, err := afip.GenerateValidCUIT(prefix)
			require.NoError(t, err)
			require.Len(t, c, afip.CUITLength)
			require.True(t, afip.ValidateCUIT(c), "generado inválido: %s", c)
			if prefix != "" {
				assert.Equal(t, prefix, c[:2])
			}
		}
	}
}

func TestGenerateValidCUIT_PrefijoInvalido(t *testing.T) {
	_, err := afip.GenerateValidCUIT("2")
	assert.Error(t, err)
	_, err = afip.GenerateValidCUIT("ab")
	assert.Error(t, err)
}

// Cambiar el verificador de un CUIT válido siempre lo invalida.
func TestValidateCUIT_SoloUnVerificadorEsValido(t *testing.T) {
	c, err := afip.GenerateValidCUIT("20")
	require.NoError(t, err)
	validCount := 0
	for d := byte('0'); d <= '9'; d++ {
		if afip.ValidateCUIT(c[:10] + string(d)) {
			validCount++
		}
	}
	assert.Equal(t, 1, validCount)
}
