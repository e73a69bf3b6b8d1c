// Package validation casos de uso de validación de CUIT y consulta de padrón simulada.
package validation

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// MaxPersonaList máximo de CUITs por consulta de padrón.
const MaxPersonaList = 100

// ErrTooManyCUITs la lista supera MaxPersonaList.
var ErrTooManyCUITs = fmt.Errorf("%w: máximo %d CUITs por consulta", domain.ErrInvalidInput, MaxPersonaList)

// ErrInvalidChecksum dígito verificador incorrecto en getPersona.
var ErrInvalidChecksum = errors.New("dígito verificador de CUIT/CUIL inválido")

const (
	tipoFisica   = "FISICA"
	tipoJuridica = "JURIDICA"
	tipoCUIT     = "CUIT"
	tipoCUIL     = "CUIL"
	caba         = "Ciudad Autónoma de Buenos Aires"
)

var (
	firstNames = []string{"Juan", "María", "Carlos", "Ana", "Luis", "Laura", "Diego", "Sofía"}
	lastNames  = []string{"González", "Rodríguez", "Fernández", "López", "Martínez", "García", "Pérez", "Sánchez"}
)

// ChecksumError dígito verificador informado y esperado de un CUIT rechazado.
type ChecksumError struct {
	CUIT     string
	Provided int
	Expected int
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: esperado %d, recibido %d", ErrInvalidChecksum, e.Expected, e.Provided)
}

func (e *ChecksumError) Unwrap() error { return ErrInvalidChecksum }

// UseCase validación de CUIT y padrón A5.
type UseCase struct{}

// NewUseCase construye el caso de uso.
func NewUseCase() *UseCase { return &UseCase{} }

// ValidateCUIT valida el dígito verificador. Un CUIT inválido no es error:
// se informa con Valid=false y, si el formato es correcto, los dígitos.
func (uc *UseCase) ValidateCUIT(raw string) (*dto.CUITValidationResponse, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: CUIT/CUIL es obligatorio", domain.ErrInvalidInput)
	}
	clean := afip.CleanCUIT(raw)
	formatted, _ := afip.FormatCUIT(clean)
	out := &dto.CUITValidationResponse{CUIT: clean, Formatted: formatted}

	err := afip.VerifyCUIT(clean)
	var cdErr *afip.CheckDigitError
	switch {
	case err == nil:
		out.Valid = true
		out.Type = string(afip.ClassifyCUIT(clean))
		out.DocumentType = documentType(clean)
	case errors.As(err, &cdErr):
		out.Error = "Dígito verificador inválido"
		out.Details = &dto.CheckDigitDetails{ProvidedCheckDigit: cdErr.Provided, ExpectedCheckDigit: cdErr.Expected}
	default:
		out.Error = "El CUIT debe tener 11 dígitos"
	}
	return out, nil
}

// GetPersona datos simulados del contribuyente. Formato o verificador inválidos son error.
func (uc *UseCase) GetPersona(raw string) (*dto.GetPersonaResponse, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: CUIT/CUIL es obligatorio", domain.ErrInvalidInput)
	}
	clean := afip.CleanCUIT(raw)
	if err := checksum(clean); err != nil {
		return nil, err
	}
	return &dto.GetPersonaResponse{Persona: mockPersona(clean)}, nil
}

// GetPersonaList resuelve hasta MaxPersonaList CUITs; los inválidos se informan por ítem.
func (uc *UseCase) GetPersonaList(raws []string) (*dto.GetPersonaListResponse, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: se requiere una lista de CUITs/CUILs", domain.ErrInvalidInput)
	}
	if len(raws) > MaxPersonaList {
		return nil, ErrTooManyCUITs
	}
	out := &dto.GetPersonaListResponse{Personas: make([]dto.PersonaListItem, 0, len(raws))}
	for _, raw := range raws {
		clean := afip.CleanCUIT(raw)
		if err := checksum(clean); err != nil {
			msg := "INVALID_CHECKSUM"
			out.Personas = append(out.Personas, dto.PersonaListItem{CUIT: raw, Error: &msg})
			continue
		}
		p := mockPersona(clean)
		out.Personas = append(out.Personas, dto.PersonaListItem{CUIT: clean, Persona: &p})
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func checksum(clean string) error {
	err := afip.VerifyCUIT(clean)
	var cdErr *afip.CheckDigitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cdErr):
		return &ChecksumError{CUIT: clean, Provided: cdErr.Provided, Expected: cdErr.Expected}
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
}

func documentType(clean string) string {
	switch afip.ClassifyCUIT(clean) {
	case afip.PersonTypeUnknown:
		return tipoCUIL
	default:
		return tipoCUIT
	}
}

// mockPersona arma datos deterministas: el mismo CUIT siempre produce la misma persona.
func mockPersona(clean string) dto.Persona {
	docNumber := clean[2:10]
	n, _ := strconv.ParseInt(docNumber, 10, 64)
	kind := afip.ClassifyCUIT(clean)

	h := fnv.New32a()
	_, _ = h.Write([]byte(clean))
	seed := h.Sum32()

	p := dto.Persona{
		CUIT:            clean,
		IDPersona:       n,
		TipoCuit:        documentType(clean),
		Clasificacion:   string(kind),
		NumeroDocumento: n,
		EstadoCuit:      "ACTIVO",
	}
	if kind.IsLegalEntity() {
		razon := "Mock Company " + docNumber + " S.A."
		p.TipoPersona = tipoJuridica
		p.RazonSocial = &razon
		p.DomicilioFiscal = dto.DomicilioFiscal{
			Direccion:    fmt.Sprintf("Av. Corrientes %d", 1000+seed%9000),
			Localidad:    caba,
			Provincia:    caba,
			CodigoPostal: "C1043",
			Pais:         "ARGENTINA",
		}
		return p
	}

	nombre := firstNames[int(docNumber[0]-'0')%len(firstNames)]
	apellido := lastNames[int(docNumber[1]-'0')%len(lastNames)]
	categoria := "MONOTRIBUTO"
	p.TipoPersona = tipoFisica
	p.Nombre = &nombre
	p.Apellido = &apellido
	p.CategoriaAutonomo = &categoria
	p.DomicilioFiscal = dto.DomicilioFiscal{
		Direccion:    fmt.Sprintf("Calle %d %d", 10+seed%90, 1000+(seed/90)%9000),
		Localidad:    caba,
		Provincia:    caba,
		CodigoPostal: "C1000",
		Pais:         "ARGENTINA",
	}
	return p
}
