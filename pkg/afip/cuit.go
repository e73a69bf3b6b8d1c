// Package afip contiene los algoritmos y catálogos de facturación electrónica
// AFIP (Argentina): CUIT/CUIL, CAE, alícuotas de IVA y tablas de comprobantes.
package afip

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// pesos del algoritmo módulo 11 de AFIP, aplicados a los 10 primeros dígitos del CUIT.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// CUITLength cantidad de dígitos de un CUIT/CUIL sin separadores.
const CUITLength = 11

// ErrCUITFormat el CUIT no tiene 11 dígitos numéricos.
var ErrCUITFormat = errors.New("afip: el CUIT debe tener 11 dígitos")

// CheckDigitError el CUIT tiene formato correcto pero el dígito verificador no coincide.
type CheckDigitError struct {
	Provided int
	Expected int
}

func (e *CheckDigitError) Error() string {
	return fmt.Sprintf("afip: dígito verificador inválido: esperado %d, recibido %d", e.Expected, e.Provided)
}

// PersonType clasificación del contribuyente según el prefijo del CUIT.
type PersonType string

const (
	PersonMale          PersonType = "Persona Física Masculino"
	PersonNonResident   PersonType = "Persona Física - No Residente"
	PersonNew           PersonType = "Persona Física - Nuevo"
	PersonFemale        PersonType = "Persona Física Femenino"
	LegalEntity         PersonType = "Persona Jurídica"
	LegalEntityNational PersonType = "Persona Jurídica - Nacional"
	LegalEntityForeign  PersonType = "Persona Jurídica - Extranjera"
	PersonTypeUnknown   PersonType = "Desconocido"
)

var personTypes = map[string]PersonType{
	"20": PersonMale,
	"23": PersonNonResident,
	"24": PersonNew,
	"27": PersonFemale,
	"30": LegalEntity,
	"33": LegalEntityNational,
	"34": LegalEntityForeign,
}

// IsLegalEntity indica si el tipo corresponde a una persona jurídica.
func (p PersonType) IsLegalEntity() bool {
	return p == LegalEntity || p == LegalEntityNational || p == LegalEntityForeign
}

// CleanCUIT quita guiones y espacios. No valida.
func CleanCUIT(raw string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(raw)
}

// ComputeCUITCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
// El resto 11 se mapea a 0 y el resto 10 a 9.
func ComputeCUITCheckDigit(first10 string) (int, error) {
	if len(first10) != 10 || !allDigits(first10) {
		return 0, fmt.Errorf("afip: se requieren 10 dígitos para calcular el verificador, recibido %q", first10)
	}
	var sum int
	for i := 0; i < 10; i++ {
		sum += int(first10[i]-'0') * cuitWeights[i]
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0, nil
	case 10:
		return 9, nil
	}
	return check, nil
}

// VerifyCUIT valida el CUIT y devuelve ErrCUITFormat o *CheckDigitError si no es válido.
func VerifyCUIT(raw string) error {
	clean := CleanCUIT(raw)
	if len(clean) != CUITLength || !allDigits(clean) {
		return ErrCUITFormat
	}
	expected, err := ComputeCUITCheckDigit(clean[:10])
	if err != nil {
		return err
	}
	provided := int(clean[10] - '0')
	if provided != expected {
		return &CheckDigitError{Provided: provided, Expected: expected}
	}
	return nil
}

// ValidateCUIT devuelve true si el CUIT tiene 11 dígitos y el verificador coincide.
func ValidateCUIT(raw string) bool {
	return VerifyCUIT(raw) == nil
}

// FormatCUIT devuelve el CUIT como XX-XXXXXXXX-X. Solo exige 11 dígitos, no el verificador.
func FormatCUIT(raw string) (string, bool) {
	clean := CleanCUIT(raw)
	if len(clean) != CUITLength || !allDigits(clean) {
		return "", false
	}
	return clean[:2] + "-" + clean[2:10] + "-" + clean[10:], true
}

// ClassifyCUIT devuelve el tipo de persona según el prefijo; nunca falla.
func ClassifyCUIT(raw string) PersonType {
	clean := CleanCUIT(raw)
	if len(clean) < 2 {
		return PersonTypeUnknown
	}
	if t, ok := personTypes[clean[:2]]; ok {
		return t
	}
	return PersonTypeUnknown
}

// GenerateValidCUIT arma un CUIT válido con el prefijo dado (20 si está vacío)
// y 8 dígitos aleatorios.
func GenerateValidCUIT(prefix string) (string, error) {
	if prefix == "" {
		prefix = "20"
	}
	if len(prefix) != 2 || !allDigits(prefix) {
		return "", fmt.Errorf("afip: prefijo de CUIT inválido %q", prefix)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		return "", fmt.Errorf("afip: generar dígitos aleatorios: %w", err)
	}
	base := fmt.Sprintf("%s%08d", prefix, n.Int64())
	check, err := ComputeCUITCheckDigit(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", base, check), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
