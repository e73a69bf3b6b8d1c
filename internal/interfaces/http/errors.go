package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/application/validation"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/pkg/afip"
	"github.com/jhoicas/afip-mock/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidBody        = "INVALID_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidCUITFormat  = "INVALID_CUIT_FORMAT"
	CodeInvalidCUIT        = "INVALID_CUIT"
	CodeInvalidInvoiceType = "INVALID_INVOICE_TYPE"
	CodeInvalidSequence    = "INVALID_SEQUENCE"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

// ErrorHandler traduce los errores devueltos por los handlers a respuestas JSON.
// showInternal expone el mensaje de los errores 500 (solo en desarrollo).
func ErrorHandler(showInternal bool, log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err, showInternal)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error, showInternal bool) (int, dto.ErrorResponse) {
	var (
		fiberErr    *fiber.Error
		validErr    *domain.ValidationError
		checksumErr *validation.ChecksumError
	)
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message}
	case errors.As(err, &validErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    CodeValidationFailed,
			Message: domain.ErrValidationFailed.Error(),
			Details: validErr.Violations,
		}
	case errors.As(err, &checksumErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    CodeInvalidCUIT,
			Message: "dígito verificador de CUIT/CUIL inválido",
			Details: dto.CheckDigitDetails{
				ProvidedCheckDigit: checksumErr.Provided,
				ExpectedCheckDigit: checksumErr.Expected,
			},
		}
	case errors.Is(err, validation.ErrTooManyCUITs):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeTooManyRequests, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInvoiceType):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidInvoiceType, Message: err.Error()}
	case errors.Is(err, afip.ErrCUITFormat):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidCUITFormat, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidSequence):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidSequence, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeBadRequest, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: "token inválido o expirado"}
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrSequenceConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConflict, Message: err.Error()}
	}

	msg := "error interno del servidor"
	if showInternal {
		msg = err.Error()
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: msg}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	}
	if status >= fiber.StatusInternalServerError {
		return CodeInternal
	}
	return CodeBadRequest
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
