package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrValidationFailed = errors.New("validación de comprobante fallida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrSequenceConflict = errors.New("número de comprobante fuera de secuencia")
	ErrInvalidSequence  = errors.New("el número informado no es el próximo a autorizar")

	// ErrInvalidInvoiceType tipo de comprobante desconocido en la cabecera de un lote.
	ErrInvalidInvoiceType = fmt.Errorf("%w: tipo de comprobante inválido", ErrInvalidInput)
)

// Violation una regla de negocio incumplida.
type Violation struct {
	Field   string `json:"field"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ValidationError agrupa todas las reglas incumplidas de una petición.
// errors.Is(err, ErrValidationFailed) es verdadero.
type ValidationError struct {
	Violations []Violation
}

// Add registra una violación.
func (e *ValidationError) Add(field string, code int, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// HasField indica si alguna violación refiere al campo.
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// OrNil devuelve nil si no hay violaciones.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
