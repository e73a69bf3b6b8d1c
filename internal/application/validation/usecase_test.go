package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/application/validation"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

func TestValidateCUIT(t *testing.T) {
	uc := validation.NewUseCase()

	tests := []struct {
		name     string
		input    string
		valid    bool
		docType  string
		expected int
		provided int
	}{
		{"persona física", "20-12345678-6", true, "CUIT", 0, 0},
		{"persona jurídica", "30712345671", true, "CUIT", 0, 0},
		{"dígito incorrecto", "20123456780", false, "", 6, 0},
		{"formato inválido", "123", false, "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := uc.ValidateCUIT(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, afip.CleanCUIT(tt.input), res.CUIT)
			assert.Equal(t, tt.docType, res.DocumentType)
			if tt.valid {
				assert.Empty(t, res.Error)
				assert.Nil(t, res.Details)
				return
			}
			assert.NotEmpty(t, res.Error)
			if tt.expected != 0 {
				require.NotNil(t, res.Details)
				assert.Equal(t, tt.expected, res.Details.ExpectedCheckDigit)
				assert.Equal(t, tt.provided, res.Details.ProvidedCheckDigit)
			}
		})
	}

	ok, err := uc.ValidateCUIT("20123456786")
	require.NoError(t, err)
	assert.Equal(t, "20-12345678-6", ok.Formatted)
	assert.Equal(t, string(afip.PersonMale), ok.Type)

	_, err = uc.ValidateCUIT("")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGetPersona_Determinista(t *testing.T) {
	uc := validation.NewUseCase()

	a, err := uc.GetPersona("20-12345678-6")
	require.NoError(t, err)
	b, err := uc.GetPersona("20123456786")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p := a.Persona
	assert.Equal(t, "20123456786", p.CUIT)
	assert.Equal(t, int64(12345678), p.IDPersona)
	assert.Equal(t, "FISICA", p.TipoPersona)
	require.NotNil(t, p.Nombre)
	require.NotNil(t, p.Apellido)
	assert.Equal(t, "María", *p.Nombre)
	assert.Equal(t, "Fernández", *p.Apellido)
	assert.Nil(t, p.RazonSocial)
	assert.Equal(t, "ACTIVO", p.EstadoCuit)
	assert.True(t, strings.HasPrefix(p.DomicilioFiscal.Direccion, "Calle "))
}

func TestGetPersona_Juridica(t *testing.T) {
	uc := validation.NewUseCase()

	res, err := uc.GetPersona("30712345671")
	require.NoError(t, err)
	p := res.Persona
	assert.Equal(t, "JURIDICA", p.TipoPersona)
	require.NotNil(t, p.RazonSocial)
	assert.Equal(t, "Mock Company 71234567 S.A.", *p.RazonSocial)
	assert.Nil(t, p.Nombre)
	assert.True(t, strings.HasPrefix(p.DomicilioFiscal.Direccion, "Av. Corrientes "))
}

func TestGetPersona_Errores(t *testing.T) {
	uc := validation.NewUseCase()

	_, err := uc.GetPersona("20123456780")
	var cs *validation.ChecksumError
	require.True(t, errors.As(err, &cs))
	assert.True(t, errors.Is(err, validation.ErrInvalidChecksum))
	assert.Equal(t, 6, cs.Expected)
	assert.Equal(t, 0, cs.Provided)

	_, err = uc.GetPersona("12ab")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.GetPersona("")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestGetPersonaList(t *testing.T) {
	uc := validation.NewUseCase()

	res, err := uc.GetPersonaList([]string{"20123456786", "27-98765432-0", "30712345671"})
	require.NoError(t, err)
	require.Len(t, res.Personas, 3)

	assert.Nil(t, res.Personas[0].Error)
	require.NotNil(t, res.Personas[0].Persona)
	assert.Equal(t, "20123456786", res.Personas[0].Persona.CUIT)

	require.NotNil(t, res.Personas[1].Error)
	assert.Equal(t, "INVALID_CHECKSUM", *res.Personas[1].Error)
	assert.Equal(t, "27-98765432-0", res.Personas[1].CUIT)
	assert.Nil(t, res.Personas[1].Persona)

	assert.NotNil(t, res.Personas[2].Persona)

	_, err = uc.GetPersonaList(nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	many := make([]string, validation.MaxPersonaList+1)
	for i := range many {
		many[i] = "20123456786"
	}
	_, err = uc.GetPersonaList(many)
	assert.ErrorIs(t, err, validation.ErrTooManyCUITs)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
